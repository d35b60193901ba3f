package renderer

import (
	"errors"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// ErrDegenerateRay is returned for a ray whose direction is zero or not finite
var ErrDegenerateRay = errors.New("degenerate ray direction")

// Raytracer traces rays against a read-only scene.
// It holds no mutable state, so one Raytracer may be shared by any number of goroutines.
type Raytracer struct {
	scene *scene.Scene
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene) *Raytracer {
	return &Raytracer{scene: s}
}

// Scene returns the scene being traced
func (rt *Raytracer) Scene() *scene.Scene {
	return rt.scene
}

// ClosestHit finds the nearest sphere hit strictly inside (minT, maxT).
// Equal hits go to the sphere declared first. Returns (+Inf, nil) on a miss.
func (rt *Raytracer) ClosestHit(origin, direction core.Vec3, minT, maxT float64) (float64, *geometry.Sphere) {
	closestT := math.Inf(1)
	var closest *geometry.Sphere

	for i := range rt.scene.Spheres {
		sphere := &rt.scene.Spheres[i]
		t1, t2 := sphere.Intersect(origin, direction)

		if t1 > minT && t1 < maxT && t1 < closestT {
			closestT = t1
			closest = sphere
		}
		if t2 > minT && t2 < maxT && t2 < closestT {
			closestT = t2
			closest = sphere
		}
	}

	return closestT, closest
}

// InShadow reports whether anything lies between point and point+toLight*maxT.
// maxT is 1 for point lights (toLight reaches the light) and +Inf for directional lights.
func (rt *Raytracer) InShadow(point, toLight core.Vec3, maxT float64) bool {
	_, blocker := rt.ClosestHit(point, toLight, rt.scene.Config.ShadowEpsilon, maxT)
	return blocker != nil
}

// ComputeLighting returns the light intensity reaching point from every scene light.
// view points from the surface toward the viewer. specular <= 0 disables highlights.
func (rt *Raytracer) ComputeLighting(point, normal, view core.Vec3, specular float64) float64 {
	intensity := 0.0

	for _, light := range rt.scene.Lights {
		var toLight core.Vec3
		var lightIntensity, maxT float64

		switch l := light.(type) {
		case *lights.Ambient:
			intensity += l.Intensity
			continue
		case *lights.Point:
			toLight = l.Position.Subtract(point)
			lightIntensity = l.Intensity
			maxT = 1
		case *lights.Directional:
			toLight = l.Direction
			lightIntensity = l.Intensity
			maxT = math.Inf(1)
		default:
			panic("renderer: unhandled light type " + string(light.Type()))
		}

		if rt.InShadow(point, toLight, maxT) {
			continue
		}

		// Diffuse
		normalDotL := normal.Dot(toLight)
		if normalDotL > 0 {
			intensity += lightIntensity * normalDotL / (normal.Length() * toLight.Length())
		}

		// Specular
		if specular > 0 {
			reflected := core.Reflect(toLight, normal)
			reflectedDotView := reflected.Dot(view)
			if reflectedDotView > 0 {
				intensity += lightIntensity * math.Pow(reflectedDotView/(reflected.Length()*view.Length()), specular)
			}
		}
	}

	return intensity
}

// TraceRay returns the color seen along origin + t*direction for t in (minT, maxT),
// following mirror reflections for at most depth more bounces.
func (rt *Raytracer) TraceRay(origin, direction core.Vec3, minT, maxT float64, depth int) core.Color {
	color, _ := rt.traceRay(origin, direction, minT, maxT, depth)
	return color
}

// Trace is the checked entry point for primary rays: it rejects degenerate directions
// and traces with the scene's near clip and max distance.
func (rt *Raytracer) Trace(origin, direction core.Vec3, depth int) (core.Color, error) {
	if direction.IsZero() || !direction.IsFinite() || !origin.IsFinite() {
		return core.Color{}, ErrDegenerateRay
	}
	config := rt.scene.Config
	return rt.TraceRay(origin, direction, config.NearClip, config.MaxDistance, depth), nil
}

// traceRay also reports whether the ray hit any sphere
func (rt *Raytracer) traceRay(origin, direction core.Vec3, minT, maxT float64, depth int) (core.Color, bool) {
	t, sphere := rt.ClosestHit(origin, direction, minT, maxT)
	if sphere == nil {
		return rt.scene.Config.Background, false
	}

	point := origin.Add(direction.Multiply(t))
	normal := sphere.Normal(point)
	view := direction.Negate().Normalize()

	intensity := rt.ComputeLighting(point, normal, view, sphere.Specular)
	localColor := sphere.Color.Scale(intensity)

	reflectivity := sphere.Reflective
	if depth <= 0 || reflectivity <= 0 {
		return localColor, true
	}

	reflectedDirection := core.Reflect(view, normal)
	reflectedColor := rt.TraceRay(point, reflectedDirection, rt.scene.Config.ShadowEpsilon, math.Inf(1), depth-1)

	return localColor.Scale(1 - reflectivity).Add(reflectedColor.Scale(reflectivity)), true
}
