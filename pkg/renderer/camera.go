package renderer

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Camera maps device pixels onto a projection plane in front of a fixed origin.
// The camera always looks down +Z with +Y up; orientation is not modeled.
type Camera struct {
	origin         core.Vec3
	width, height  int
	viewportWidth  float64
	viewportHeight float64
	planeDistance  float64
}

// NewCamera creates a camera from the scene's origin and viewport configuration
func NewCamera(s *scene.Scene) *Camera {
	return &Camera{
		origin:         s.CameraOrigin,
		width:          s.Config.Width,
		height:         s.Config.Height,
		viewportWidth:  s.Config.ViewportWidth,
		viewportHeight: s.Config.ViewportHeight,
		planeDistance:  s.Config.ProjectionPlaneD,
	}
}

// Origin returns the camera position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

// PixelToCanvas converts device pixel coordinates (origin top-left, y down)
// to canvas coordinates (origin at the center, y up).
func (c *Camera) PixelToCanvas(px, py int) (x, y int) {
	return px - c.width/2, c.height/2 - 1 - py
}

// CanvasToViewport returns the direction through canvas point (x, y) on the projection plane
func (c *Camera) CanvasToViewport(x, y int) core.Vec3 {
	return core.NewVec3(
		float64(x)*c.viewportWidth/float64(c.width),
		float64(y)*c.viewportHeight/float64(c.height),
		c.planeDistance,
	)
}

// GetRay generates the primary ray for device pixel (px, py)
func (c *Camera) GetRay(px, py int) core.Ray {
	x, y := c.PixelToCanvas(px, py)
	return core.NewRay(c.origin, c.CanvasToViewport(x, y))
}
