package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
)

// ErrInvalidScene wraps every construction-time contract violation
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering.
// A Scene is read-only once built; editing happens on a copy (see package editor).
type Scene struct {
	Name         string
	Spheres      []geometry.Sphere // Declaration order decides ties between equal hits
	Lights       []lights.Light
	CameraOrigin core.Vec3
	Config       Config
}

// Config contains tracing and viewport configuration
type Config struct {
	Width            int        // Image width in pixels
	Height           int        // Image height in pixels
	ViewportWidth    float64    // Width of the projection window in scene units
	ViewportHeight   float64    // Height of the projection window in scene units
	ProjectionPlaneD float64    // Distance from camera to the projection plane
	RecursionDepth   int        // Maximum number of mirror bounces
	Background       core.Color // Returned for rays that hit nothing
	ShadowEpsilon    float64    // Minimum t for shadow and reflection rays
	NearClip         float64    // Minimum t for primary rays
	MaxDistance      float64    // Maximum t for primary rays
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:            600,
		Height:           600,
		ViewportWidth:    1,
		ViewportHeight:   1,
		ProjectionPlaneD: 1,
		RecursionDepth:   3,
		Background:       core.Black,
		ShadowEpsilon:    0.001,
		NearClip:         1,
		MaxDistance:      math.Inf(1),
	}
}

// MergeConfig applies non-zero override fields on top of base.
// Background is always taken from base; set it directly when it must change.
func MergeConfig(base, override Config) Config {
	result := base
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.ViewportWidth > 0 {
		result.ViewportWidth = override.ViewportWidth
	}
	if override.ViewportHeight > 0 {
		result.ViewportHeight = override.ViewportHeight
	}
	if override.ProjectionPlaneD > 0 {
		result.ProjectionPlaneD = override.ProjectionPlaneD
	}
	if override.RecursionDepth > 0 {
		result.RecursionDepth = override.RecursionDepth
	}
	if override.ShadowEpsilon > 0 {
		result.ShadowEpsilon = override.ShadowEpsilon
	}
	if override.NearClip > 0 {
		result.NearClip = override.NearClip
	}
	if override.MaxDistance > 0 {
		result.MaxDistance = override.MaxDistance
	}
	return result
}

// Validate checks that the configuration can drive a render
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidScene, c.Width, c.Height)
	case !(c.ViewportWidth > 0) || !(c.ViewportHeight > 0):
		return fmt.Errorf("%w: viewport must be positive, got %gx%g", ErrInvalidScene, c.ViewportWidth, c.ViewportHeight)
	case !(c.ProjectionPlaneD > 0):
		return fmt.Errorf("%w: projection plane distance must be positive, got %g", ErrInvalidScene, c.ProjectionPlaneD)
	case c.RecursionDepth < 0:
		return fmt.Errorf("%w: recursion depth must not be negative, got %d", ErrInvalidScene, c.RecursionDepth)
	case !(c.ShadowEpsilon > 0):
		return fmt.Errorf("%w: shadow epsilon must be positive, got %g", ErrInvalidScene, c.ShadowEpsilon)
	case !(c.NearClip >= 0):
		return fmt.Errorf("%w: near clip must not be negative, got %g", ErrInvalidScene, c.NearClip)
	case !(c.MaxDistance > c.NearClip):
		return fmt.Errorf("%w: max distance %g must exceed near clip %g", ErrInvalidScene, c.MaxDistance, c.NearClip)
	}
	return nil
}

// New validates and builds a scene. The slices are copied so later edits
// to the caller's values never reach the scene.
func New(name string, spheres []geometry.Sphere, sceneLights []lights.Light, cameraOrigin core.Vec3, config Config) (*Scene, error) {
	if !cameraOrigin.IsFinite() {
		return nil, fmt.Errorf("%w: camera origin %v is not finite", ErrInvalidScene, cameraOrigin)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		Name:         name,
		Spheres:      make([]geometry.Sphere, len(spheres)),
		Lights:       make([]lights.Light, len(sceneLights)),
		CameraOrigin: cameraOrigin,
		Config:       config,
	}

	for i, sphere := range spheres {
		if err := sphere.Validate(); err != nil {
			return nil, fmt.Errorf("%w: sphere %d: %w", ErrInvalidScene, i, err)
		}
		s.Spheres[i] = sphere
	}
	for i, light := range sceneLights {
		if err := lights.Validate(light); err != nil {
			return nil, fmt.Errorf("%w: light %d: %w", ErrInvalidScene, i, err)
		}
		s.Lights[i] = lights.Clone(light)
	}

	return s, nil
}

// MustNew is like New but panics on an invalid scene. Used for built-in scenes.
func MustNew(name string, spheres []geometry.Sphere, sceneLights []lights.Light, cameraOrigin core.Vec3, config Config) *Scene {
	s, err := New(name, spheres, sceneLights, cameraOrigin, config)
	if err != nil {
		panic(err)
	}
	return s
}

// WithConfig returns a copy of the scene using a different configuration
func (s *Scene) WithConfig(config Config) (*Scene, error) {
	return New(s.Name, s.Spheres, s.Lights, s.CameraOrigin, config)
}

// GetPrimitiveCount returns the total number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Spheres)
}
