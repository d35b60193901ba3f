package lights

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ErrInvalidLight is returned when a light is built with a missing or malformed field
var ErrInvalidLight = errors.New("invalid light")

type LightType string

const (
	LightTypeAmbient     LightType = "ambient"
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a closed set of light kinds: *Ambient, *Point and *Directional.
// Consumers switch on the concrete type.
type Light interface {
	Type() LightType
	validate() error
}

// Ambient light illuminates every surface point equally, with no shadow test
type Ambient struct {
	Intensity float64
}

// Point light emits from a position in the scene
type Point struct {
	Intensity float64
	Position  core.Vec3
}

// Directional light arrives from infinitely far away.
// Direction points toward the light, opposite to the travel of the light.
type Directional struct {
	Intensity float64
	Direction core.Vec3
}

func (*Ambient) Type() LightType     { return LightTypeAmbient }
func (*Point) Type() LightType       { return LightTypePoint }
func (*Directional) Type() LightType { return LightTypeDirectional }

// NewAmbient creates an ambient light
func NewAmbient(intensity float64) (*Ambient, error) {
	l := &Ambient{Intensity: intensity}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// NewPoint creates a point light at position
func NewPoint(intensity float64, position core.Vec3) (*Point, error) {
	l := &Point{Intensity: intensity, Position: position}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// NewDirectional creates a directional light shining from direction
func NewDirectional(intensity float64, direction core.Vec3) (*Directional, error) {
	l := &Directional{Intensity: intensity, Direction: direction}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks the construction contract of any light
func Validate(l Light) error {
	if l == nil {
		return fmt.Errorf("%w: nil light", ErrInvalidLight)
	}
	return l.validate()
}

func (l *Ambient) validate() error {
	return checkIntensity(LightTypeAmbient, l.Intensity)
}

func (l *Point) validate() error {
	if err := checkIntensity(LightTypePoint, l.Intensity); err != nil {
		return err
	}
	if !l.Position.IsFinite() {
		return fmt.Errorf("%w: point light position %v is not finite", ErrInvalidLight, l.Position)
	}
	return nil
}

func (l *Directional) validate() error {
	if err := checkIntensity(LightTypeDirectional, l.Intensity); err != nil {
		return err
	}
	if !l.Direction.IsFinite() || l.Direction.IsZero() {
		return fmt.Errorf("%w: directional light needs a finite non-zero direction, got %v", ErrInvalidLight, l.Direction)
	}
	return nil
}

func checkIntensity(kind LightType, intensity float64) error {
	if math.IsNaN(intensity) || math.IsInf(intensity, 0) {
		return fmt.Errorf("%w: %s light intensity must be finite, got %g", ErrInvalidLight, kind, intensity)
	}
	return nil
}

// Clone returns an independent copy of a light
func Clone(l Light) Light {
	switch l := l.(type) {
	case *Ambient:
		c := *l
		return &c
	case *Point:
		c := *l
		return &c
	case *Directional:
		c := *l
		return &c
	default:
		panic(fmt.Sprintf("lights: unhandled light type %T", l))
	}
}
