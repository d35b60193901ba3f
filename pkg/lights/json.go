package lights

import (
	"encoding/json"
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Spec is the serialized form of a light.
// Exactly the field that belongs to Type may be set: position for point lights,
// direction for directional lights, neither for ambient lights.
type Spec struct {
	Type      LightType  `json:"type"`
	Intensity float64    `json:"intensity"`
	Position  *core.Vec3 `json:"position,omitempty"`
	Direction *core.Vec3 `json:"direction,omitempty"`
}

// FromSpec builds a light from its serialized form
func FromSpec(spec Spec) (Light, error) {
	switch spec.Type {
	case LightTypeAmbient:
		if spec.Position != nil || spec.Direction != nil {
			return nil, fmt.Errorf("%w: ambient light takes no position or direction", ErrInvalidLight)
		}
		l, err := NewAmbient(spec.Intensity)
		if err != nil {
			return nil, err
		}
		return l, nil
	case LightTypePoint:
		if spec.Position == nil {
			return nil, fmt.Errorf("%w: point light requires a position", ErrInvalidLight)
		}
		if spec.Direction != nil {
			return nil, fmt.Errorf("%w: point light takes no direction", ErrInvalidLight)
		}
		l, err := NewPoint(spec.Intensity, *spec.Position)
		if err != nil {
			return nil, err
		}
		return l, nil
	case LightTypeDirectional:
		if spec.Direction == nil {
			return nil, fmt.Errorf("%w: directional light requires a direction", ErrInvalidLight)
		}
		if spec.Position != nil {
			return nil, fmt.Errorf("%w: directional light takes no position", ErrInvalidLight)
		}
		l, err := NewDirectional(spec.Intensity, *spec.Direction)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("%w: unknown light type %q", ErrInvalidLight, spec.Type)
	}
}

// ToSpec converts a light to its serialized form
func ToSpec(l Light) Spec {
	switch l := l.(type) {
	case *Ambient:
		return Spec{Type: LightTypeAmbient, Intensity: l.Intensity}
	case *Point:
		position := l.Position
		return Spec{Type: LightTypePoint, Intensity: l.Intensity, Position: &position}
	case *Directional:
		direction := l.Direction
		return Spec{Type: LightTypeDirectional, Intensity: l.Intensity, Direction: &direction}
	default:
		panic(fmt.Sprintf("lights: unhandled light type %T", l))
	}
}

// Unmarshal decodes a single light from JSON
func Unmarshal(data []byte) (Light, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLight, err)
	}
	return FromSpec(spec)
}

// Marshal encodes a single light as JSON
func Marshal(l Light) ([]byte, error) {
	return json.Marshal(ToSpec(l))
}
