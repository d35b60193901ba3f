package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// idResponse is returned by every successful edit
type idResponse struct {
	ID       string `json:"id,omitempty"`
	Revision uint64 `json:"revision"`
}

func (s *Server) handleListScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.ListScenes())
}

func (s *Server) handleGetScene(c echo.Context) error {
	return c.JSON(http.StatusOK, s.editor.Document())
}

// handleLoadScene replaces the draft with a built-in scene
func (s *Server) handleLoadScene(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return badRequest(c, "missing scene name")
	}

	sceneObj, err := scene.Create(name)
	if err != nil {
		return errorResponse(c, err)
	}

	s.editor.Load(sceneObj)
	return c.JSON(http.StatusOK, s.editor.Document())
}

func (s *Server) handleAddSphere(c echo.Context) error {
	var doc loaders.SphereDocument
	if err := c.Bind(&doc); err != nil {
		return badRequest(c, "invalid sphere: %v", err)
	}

	id, err := s.editor.AddSphere(doc.Sphere())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id, Revision: s.editor.Revision()})
}

func (s *Server) handleUpdateSphere(c echo.Context) error {
	var doc loaders.SphereDocument
	if err := c.Bind(&doc); err != nil {
		return badRequest(c, "invalid sphere: %v", err)
	}

	id := c.Param("id")
	if err := s.editor.UpdateSphere(id, doc.Sphere()); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, idResponse{ID: id, Revision: s.editor.Revision()})
}

func (s *Server) handleDeleteSphere(c echo.Context) error {
	if err := s.editor.DeleteSphere(c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, idResponse{Revision: s.editor.Revision()})
}

func (s *Server) handleAddLight(c echo.Context) error {
	light, err := bindLight(c)
	if err != nil {
		return errorResponse(c, err)
	}

	id, err := s.editor.AddLight(light)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id, Revision: s.editor.Revision()})
}

func (s *Server) handleUpdateLight(c echo.Context) error {
	light, err := bindLight(c)
	if err != nil {
		return errorResponse(c, err)
	}

	id := c.Param("id")
	if err := s.editor.UpdateLight(id, light); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, idResponse{ID: id, Revision: s.editor.Revision()})
}

func (s *Server) handleDeleteLight(c echo.Context) error {
	if err := s.editor.DeleteLight(c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, idResponse{Revision: s.editor.Revision()})
}

// bindLight decodes a light body; malformed JSON and contract violations are both ErrInvalidLight
func bindLight(c echo.Context) (lights.Light, error) {
	var spec lights.Spec
	if err := c.Bind(&spec); err != nil {
		return nil, fmt.Errorf("%w: %v", lights.ErrInvalidLight, err)
	}
	return lights.FromSpec(spec)
}
