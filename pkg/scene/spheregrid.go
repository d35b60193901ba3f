package scene

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
)

// oklchToRGB converts OKLCH color values to an 8-bit color
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColor(
		core.MaxChannel*max(0, min(1, r)),
		core.MaxChannel*max(0, min(1, g)),
		core.MaxChannel*max(0, min(1, blue)),
	)
}

// NewSphereGridScene creates a grid of small spheres on a huge ground sphere.
// Hue varies across X, chroma across Z, and every third sphere is a mirror.
func NewSphereGridScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	config.Background = core.NewColor(128, 178, 255)
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}

	const (
		gridSize   = 8
		targetArea = 7.0
		groundY    = -1.0
		nearZ      = 6.0
	)
	spacing := targetArea / float64(gridSize-1)
	radius := spacing * 0.35

	spheres := []geometry.Sphere{
		mustSphere(core.NewVec3(0, groundY-5000, 0), 5000, core.NewColor(128, 128, 128), 50, 0.1),
	}

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			center := core.NewVec3(
				float64(i)*spacing-targetArea/2,
				groundY+radius,
				nearZ+float64(j)*spacing,
			)

			hue := float64(i) / float64(gridSize-1) * 360.0
			chroma := 0.05 + float64(j)/float64(gridSize-1)*0.2
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)

			reflective := 0.0
			if (i+j)%3 == 0 {
				reflective = 0.6
			}

			spheres = append(spheres, mustSphere(center, radius, oklchToRGB(lightness, chroma, hue), 200, reflective))
		}
	}

	sceneLights := []lights.Light{
		&lights.Ambient{Intensity: 0.2},
		&lights.Point{Intensity: 0.6, Position: core.NewVec3(4, 6, 2)},
		&lights.Directional{Intensity: 0.2, Direction: core.NewVec3(-1, 4, -2)},
	}

	return MustNew("spheregrid", spheres, sceneLights, core.NewVec3(0, 1, 0), config)
}
