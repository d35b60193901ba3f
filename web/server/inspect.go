package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit        bool       `json:"hit"`
	SphereID   string     `json:"sphereId,omitempty"`
	Index      int        `json:"index"`
	Point      core.Vec3  `json:"point"`
	Normal     core.Vec3  `json:"normal"`
	Distance   float64    `json:"distance"`
	Intensity  float64    `json:"intensity"` // Lighting at the hit point before reflection
	Color      string     `json:"color"`     // Final traced pixel color as #rrggbb
	Properties properties `json:"properties"`
}

type properties struct {
	Center     core.Vec3  `json:"center"`
	Radius     float64    `json:"radius"`
	Color      core.Color `json:"color"`
	Specular   float64    `json:"specular"`
	Reflective float64    `json:"reflective"`
}

// InspectResult contains information about the sphere hit by an inspection ray
type InspectResult struct {
	Hit       bool
	Index     int // Index into the scene's spheres, -1 on a miss
	T         float64
	Point     core.Vec3
	Normal    core.Vec3
	Intensity float64
	Color     core.Color
}

// inspectPixel casts the primary ray through a pixel and reports the first sphere it hits
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	tracer := renderer.NewRaytracer(sceneObj)
	ray := renderer.NewCamera(sceneObj).GetRay(pixelX, pixelY)
	config := sceneObj.Config

	pixel := tracer.TraceRay(ray.Origin, ray.Direction, config.NearClip, config.MaxDistance, config.RecursionDepth)

	t, hit := tracer.ClosestHit(ray.Origin, ray.Direction, config.NearClip, config.MaxDistance)
	if hit == nil {
		return InspectResult{Index: -1, Color: pixel}
	}

	index := -1
	for i := range sceneObj.Spheres {
		if &sceneObj.Spheres[i] == hit {
			index = i
			break
		}
	}

	point := ray.At(t)
	normal := hit.Normal(point)
	view := ray.Direction.Negate().Normalize()

	return InspectResult{
		Hit:       true,
		Index:     index,
		T:         t,
		Point:     point,
		Normal:    normal,
		Intensity: tracer.ComputeLighting(point, normal, view, hit.Specular),
		Color:     pixel,
	}
}

func hexColor(c core.Color) string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return badRequest(c, "Invalid scene parameters: %v", err)
	}

	snapshot, ids, _, err := s.editor.SnapshotWithIDs()
	if err != nil {
		return errorResponse(c, err)
	}
	sceneObj, err := applyRequest(snapshot, req)
	if err != nil {
		return errorResponse(c, err)
	}

	pixelX, err := parseIntParam(c, "x", -1, 0, sceneObj.Config.Width-1)
	if err != nil || pixelX < 0 {
		return badRequest(c, "Invalid x coordinate")
	}
	pixelY, err := parseIntParam(c, "y", -1, 0, sceneObj.Config.Height-1)
	if err != nil || pixelY < 0 {
		return badRequest(c, "Invalid y coordinate")
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false, Index: -1, Color: hexColor(result.Color)})
	}

	sphere := sceneObj.Spheres[result.Index]
	return c.JSON(http.StatusOK, InspectResponse{
		Hit:       true,
		SphereID:  ids[result.Index],
		Index:     result.Index,
		Point:     result.Point,
		Normal:    result.Normal,
		Distance:  result.T,
		Intensity: result.Intensity,
		Color:     hexColor(result.Color),
		Properties: properties{
			Center:     sphere.Center,
			Radius:     sphere.Radius,
			Color:      sphere.Color,
			Specular:   sphere.Specular,
			Reflective: sphere.Reflective,
		},
	})
}
