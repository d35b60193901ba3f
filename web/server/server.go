package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/editor"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Config contains web server configuration
type Config struct {
	Port        int // Port to listen on
	TileSize    int // Render tile size in pixels
	NumWorkers  int // Render workers, 0 = auto-detect
	MaxWidth    int // Upper bound for requested image width
	MaxHeight   int // Upper bound for requested image height
	ConsoleSize int // Console messages kept per render
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Port:        8080,
		TileSize:    64,
		NumWorkers:  0,
		MaxWidth:    2000,
		MaxHeight:   2000,
		ConsoleSize: 256,
	}
}

// Server exposes the scene editor and the renderer over HTTP
type Server struct {
	config Config
	editor *editor.Editor
	echo   *echo.Echo

	mu      sync.Mutex
	console []ConsoleMessage // messages of the most recent render
	cache   *renderCache     // last rendered image, dropped on every edit
}

// NewServer creates a web server editing the given scene
func NewServer(config Config, initial *scene.Scene) *Server {
	s := &Server{
		config: config,
		editor: editor.New(initial),
	}
	s.editor.OnChange(s.sceneChanged)

	e := echo.New()
	e.HideBanner = true
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleListScenes)
	e.GET("/api/scene", s.handleGetScene)
	e.POST("/api/scene/load", s.handleLoadScene)

	e.POST("/api/spheres", s.handleAddSphere)
	e.PUT("/api/spheres/:id", s.handleUpdateSphere)
	e.DELETE("/api/spheres/:id", s.handleDeleteSphere)

	e.POST("/api/lights", s.handleAddLight)
	e.PUT("/api/lights/:id", s.handleUpdateLight)
	e.DELETE("/api/lights/:id", s.handleDeleteLight)

	e.GET("/api/render", s.handleRender)
	e.GET("/api/inspect", s.handleInspect)
	e.GET("/api/console", s.handleConsole)

	s.echo = e
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Editor returns the scene draft served by this server
func (s *Server) Editor() *editor.Editor {
	return s.editor
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// sceneChanged drops the cached image so the next render request traces the new revision
func (s *Server) sceneChanged(revision uint64) {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
	log.Printf("Scene changed, revision %d", revision)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		c.Response().Header().Set("Access-Control-Expose-Headers", "X-Render-Id, X-Scene-Revision, X-Render-Millis")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse maps domain errors onto HTTP status codes
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrNotFound), errors.Is(err, scene.ErrUnknownScene):
		status = http.StatusNotFound
	case errors.Is(err, geometry.ErrInvalidSphere),
		errors.Is(err, lights.ErrInvalidLight),
		errors.Is(err, scene.ErrInvalidScene):
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

func badRequest(c echo.Context, format string, args ...interface{}) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf(format, args...)})
}

// parseIntParam parses an integer query parameter with validation
func parseIntParam(c echo.Context, key string, defaultValue, min, max int) (int, error) {
	if value := c.QueryParam(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
