package server

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// RenderRequest represents the query parameters of a render request
type RenderRequest struct {
	Width  int    // Image width, 0 = scene config
	Height int    // Image height, 0 = scene config
	Depth  int    // Recursion depth, -1 = scene config
	Format string // "png" or "json"
}

// RenderResponse is returned for format=json
type RenderResponse struct {
	RenderID  string `json:"renderId"`
	Revision  uint64 `json:"revision"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int `json:"totalPixels"`
	HitPixels        int `json:"hitPixels"`
	BackgroundPixels int `json:"backgroundPixels"`
	TotalTiles       int `json:"totalTiles"`
	NumWorkers       int `json:"numWorkers"`
	RecursionDepth   int `json:"recursionDepth"`
}

// renderCache holds the last frame so unchanged scenes are not traced twice
type renderCache struct {
	request   RenderRequest
	revision  uint64
	renderID  string
	img       *image.RGBA
	png       []byte
	stats     Stats
	elapsedMs int64
}

// parseRenderRequest parses and validates render query parameters
func (s *Server) parseRenderRequest(c echo.Context) (RenderRequest, error) {
	req := RenderRequest{Format: c.QueryParam("format")}
	if req.Format == "" {
		req.Format = "png"
	}
	if req.Format != "png" && req.Format != "json" {
		return req, fmt.Errorf("format must be png or json, got: %s", req.Format)
	}

	var err error
	if req.Width, err = parseIntParam(c, "width", 0, 1, s.config.MaxWidth); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(c, "height", 0, 1, s.config.MaxHeight); err != nil {
		return req, err
	}
	if req.Depth, err = parseIntParam(c, "depth", -1, 0, 32); err != nil {
		return req, err
	}
	return req, nil
}

// applyRequest returns the snapshot with the request's size and depth overrides
func applyRequest(sceneObj *scene.Scene, req RenderRequest) (*scene.Scene, error) {
	config := sceneObj.Config
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}
	if req.Depth >= 0 {
		config.RecursionDepth = req.Depth
	}
	return sceneObj.WithConfig(config)
}

// handleRender traces the current scene revision and returns the frame
func (s *Server) handleRender(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return badRequest(c, "Invalid request: %v", err)
	}

	snapshot, revision, err := s.editor.Snapshot()
	if err != nil {
		return errorResponse(c, err)
	}

	s.mu.Lock()
	cached := s.cache
	s.mu.Unlock()

	if cached == nil || cached.revision != revision || cached.request != req {
		if cached, err = s.renderSnapshot(c, snapshot, revision, req); err != nil {
			return err
		}
		if cached == nil {
			return nil // response already written
		}
	}

	c.Response().Header().Set("X-Render-Id", cached.renderID)
	c.Response().Header().Set("X-Scene-Revision", strconv.FormatUint(cached.revision, 10))
	c.Response().Header().Set("X-Render-Millis", strconv.FormatInt(cached.elapsedMs, 10))

	if req.Format == "json" {
		imageData, err := output.EncodeBase64PNG(cached.img)
		if err != nil {
			return fmt.Errorf("failed to encode image: %w", err)
		}
		return c.JSON(http.StatusOK, RenderResponse{
			RenderID:  cached.renderID,
			Revision:  cached.revision,
			ImageData: imageData,
			Stats:     cached.stats,
			ElapsedMs: cached.elapsedMs,
		})
	}
	return c.Blob(http.StatusOK, "image/png", cached.png)
}

// renderSnapshot renders one frame, stores its console output and caches the result.
// A nil result with a nil error means an error response was already written.
func (s *Server) renderSnapshot(c echo.Context, snapshot *scene.Scene, revision uint64, req RenderRequest) (*renderCache, error) {
	sceneObj, err := applyRequest(snapshot, req)
	if err != nil {
		return nil, errorResponse(c, err)
	}

	renderID := uuid.New().String()
	consoleChan := make(chan ConsoleMessage, s.config.ConsoleSize)
	logger := NewWebLogger(renderID, consoleChan)

	config := renderer.RenderConfig{TileSize: s.config.TileSize, NumWorkers: s.config.NumWorkers}
	startTime := time.Now()
	img, renderStats, err := renderer.NewRenderer(sceneObj, config, logger).RenderFrame(c.Request().Context())
	elapsed := time.Since(startTime)

	close(consoleChan)
	s.setConsole(drainConsole(consoleChan))

	if err != nil {
		return nil, c.JSON(http.StatusServiceUnavailable, map[string]string{"error": fmt.Sprintf("Render error: %v", err)})
	}

	var buf bytes.Buffer
	if err := output.EncodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	result := &renderCache{
		request:  req,
		revision: revision,
		renderID: renderID,
		img:      img,
		png:      buf.Bytes(),
		stats: Stats{
			TotalPixels:      renderStats.TotalPixels,
			HitPixels:        renderStats.HitPixels(),
			BackgroundPixels: renderStats.BackgroundPixels,
			TotalTiles:       renderStats.TotalTiles,
			NumWorkers:       renderStats.NumWorkers,
			RecursionDepth:   renderStats.RecursionDepth,
		},
		elapsedMs: elapsed.Milliseconds(),
	}

	s.mu.Lock()
	s.cache = result
	s.mu.Unlock()
	return result, nil
}
