package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
)

// NewDefaultScene creates the classic scene: three small spheres resting on a huge yellow
// ground sphere, lit by ambient, point and directional lights.
func NewDefaultScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	config.Background = core.White
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}

	spheres := []geometry.Sphere{
		mustSphere(core.NewVec3(0, -1, 3), 1, core.NewColor(255, 0, 0), 500, 0.2),
		mustSphere(core.NewVec3(2, 0, 4), 1, core.NewColor(0, 0, 255), 500, 0.3),
		mustSphere(core.NewVec3(-2, 0, 4), 1, core.NewColor(0, 255, 0), 10, 0.4),
		mustSphere(core.NewVec3(-2, -5001, 0), 5000, core.NewColor(255, 255, 0), 1000, 0.5),
	}

	sceneLights := []lights.Light{
		&lights.Ambient{Intensity: 0.2},
		&lights.Point{Intensity: 0.6, Position: core.NewVec3(2, 1, 0)},
		&lights.Directional{Intensity: 0.2, Direction: core.NewVec3(1, 4, 4)},
	}

	return MustNew("default", spheres, sceneLights, core.NewVec3(0, 0, 0), config)
}

// NewBasicScene creates three flat-colored spheres under full ambient light.
// Every visible pixel is exactly a sphere color or the white background.
func NewBasicScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	config.Background = core.White
	config.RecursionDepth = 0
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}

	spheres := []geometry.Sphere{
		mustSphere(core.NewVec3(0, -3, 4), 2, core.NewColor(255, 0, 0), 0, 0),
		mustSphere(core.NewVec3(-2, 0, 4), 1, core.NewColor(0, 255, 0), 0, 0),
		mustSphere(core.NewVec3(2, 0, 4), 1, core.NewColor(0, 0, 255), 0, 0),
	}

	sceneLights := []lights.Light{
		&lights.Ambient{Intensity: 1.0},
	}

	return MustNew("basic", spheres, sceneLights, core.NewVec3(0, 0, 0), config)
}

// NewMirrorScene creates two facing, almost mirror-like spheres over a dark ground
// to show repeated reflections bounded by the recursion depth.
func NewMirrorScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	config.RecursionDepth = 5
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}

	spheres := []geometry.Sphere{
		mustSphere(core.NewVec3(-1.1, 0, 4), 1, core.NewColor(220, 220, 220), 1000, 0.8),
		mustSphere(core.NewVec3(1.1, 0, 4), 1, core.NewColor(200, 160, 60), 300, 0.7),
		mustSphere(core.NewVec3(0, 0.6, 2.5), 0.25, core.NewColor(255, 40, 40), 50, 0),
		mustSphere(core.NewVec3(0, -1001, 0), 1000, core.NewColor(60, 60, 80), 0, 0.1),
	}

	sceneLights := []lights.Light{
		&lights.Ambient{Intensity: 0.15},
		&lights.Point{Intensity: 0.7, Position: core.NewVec3(0, 3, 1)},
		&lights.Directional{Intensity: 0.15, Direction: core.NewVec3(-1, 2, -2)},
	}

	return MustNew("mirror", spheres, sceneLights, core.NewVec3(0, 0, 0), config)
}

func mustSphere(center core.Vec3, radius float64, color core.Color, specular, reflective float64) geometry.Sphere {
	s, err := geometry.NewSphere(center, radius, color, specular, reflective)
	if err != nil {
		panic(err)
	}
	return s
}
