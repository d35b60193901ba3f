package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ErrInvalidSphere is returned when a sphere violates its construction contract
var ErrInvalidSphere = errors.New("invalid sphere")

// Sphere represents a sphere shape with its surface properties
type Sphere struct {
	Center     core.Vec3
	Radius     float64
	Color      core.Color
	Specular   float64 // Specular exponent; <= 0 disables the highlight
	Reflective float64 // Fraction of color taken from the mirror reflection, in [0, 1)
}

// NewSphere creates a new sphere, rejecting a non-positive radius or a reflectivity outside [0, 1)
func NewSphere(center core.Vec3, radius float64, color core.Color, specular, reflective float64) (Sphere, error) {
	s := Sphere{
		Center:     center,
		Radius:     radius,
		Color:      color,
		Specular:   specular,
		Reflective: reflective,
	}
	if err := s.Validate(); err != nil {
		return Sphere{}, err
	}
	return s, nil
}

// Validate checks the sphere invariants
func (s Sphere) Validate() error {
	if !s.Center.IsFinite() {
		return fmt.Errorf("%w: center %v is not finite", ErrInvalidSphere, s.Center)
	}
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: radius must be positive and finite, got %g", ErrInvalidSphere, s.Radius)
	}
	if math.IsNaN(s.Specular) {
		return fmt.Errorf("%w: specular exponent is NaN", ErrInvalidSphere)
	}
	if !(s.Reflective >= 0 && s.Reflective < 1) {
		return fmt.Errorf("%w: reflectivity must be in [0, 1), got %g", ErrInvalidSphere, s.Reflective)
	}
	return nil
}

// Intersect returns both parameters at which the ray origin + t*direction meets the sphere.
// When the ray misses, both roots are +Inf so no finite interval test accepts them.
// The roots are not ordered. A zero direction is not guarded here.
func (s Sphere) Intersect(origin, direction core.Vec3) (t1, t2 float64) {
	// Vector from sphere center to ray origin
	oc := origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := direction.Dot(direction)
	b := 2 * oc.Dot(direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return math.Inf(1), math.Inf(1)
	}

	sqrtD := math.Sqrt(discriminant)
	t1 = (-b + sqrtD) / (2 * a)
	t2 = (-b - sqrtD) / (2 * a)
	return t1, t2
}

// Normal returns the unit outward normal at a point on the surface
func (s Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}
