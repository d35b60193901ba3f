package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// RenderConfig contains configuration for frame rendering
type RenderConfig struct {
	TileSize   int // Size of each square tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:   64,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// Renderer writes one traced color per device pixel into an RGBA image
type Renderer struct {
	scene      *scene.Scene
	raytracer  *Raytracer
	camera     *Camera
	config     RenderConfig
	workerPool *WorkerPool
	logger     core.Logger
}

// NewRenderer creates a renderer for a validated scene. A nil logger discards messages.
func NewRenderer(s *scene.Scene, config RenderConfig, logger core.Logger) *Renderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultRenderConfig().TileSize
	}
	if logger == nil {
		logger = discardLogger{}
	}
	return &Renderer{
		scene:      s,
		raytracer:  NewRaytracer(s),
		camera:     NewCamera(s),
		config:     config,
		workerPool: NewWorkerPool(config.NumWorkers),
		logger:     logger,
	}
}

// Raytracer returns the tracer used for every pixel
func (r *Renderer) Raytracer() *Raytracer {
	return r.raytracer
}

// RenderFrame renders the whole image in parallel tiles.
// A cancelled context abandons the frame and returns ctx.Err().
func (r *Renderer) RenderFrame(ctx context.Context) (*image.RGBA, RenderStats, error) {
	startTime := time.Now()
	width, height := r.scene.Config.Width, r.scene.Config.Height

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	tiles := NewTileGrid(width, height, r.config.TileSize)

	r.logger.Printf("Rendering %q at %dx%d: %d tiles on %d workers, depth %d...\n",
		r.scene.Name, width, height, len(tiles), r.workerPool.GetNumWorkers(), r.scene.Config.RecursionDepth)

	tasks := make([]TileTask, len(tiles))
	for i, tile := range tiles {
		tasks[i] = TileTask{Tile: tile, TaskID: i}
	}

	results, err := r.workerPool.Run(ctx, tasks, func(task TileTask) TileResult {
		return TileResult{TaskID: task.TaskID, Stats: r.RenderTile(task.Tile, img)}
	})
	if err != nil {
		r.logger.Printf("Render of %q cancelled: %v\n", r.scene.Name, err)
		return nil, RenderStats{}, err
	}

	stats := RenderStats{
		TotalTiles:     len(tiles),
		NumWorkers:     r.workerPool.GetNumWorkers(),
		RecursionDepth: r.scene.Config.RecursionDepth,
	}
	for _, result := range results {
		stats.addTile(result.Stats)
	}
	stats.Elapsed = time.Since(startTime)

	r.logger.Printf("Render completed in %v (%d of %d pixels hit a sphere)\n",
		stats.Elapsed, stats.HitPixels(), stats.TotalPixels)

	return img, stats, nil
}

// RenderTile traces every pixel inside the tile bounds into img.
// Tiles never overlap, so concurrent calls write disjoint pixels.
func (r *Renderer) RenderTile(tile *Tile, img *image.RGBA) TileStats {
	config := r.scene.Config
	var stats TileStats

	for py := tile.Bounds.Min.Y; py < tile.Bounds.Max.Y; py++ {
		for px := tile.Bounds.Min.X; px < tile.Bounds.Max.X; px++ {
			ray := r.camera.GetRay(px, py)
			color, hit := r.raytracer.traceRay(ray.Origin, ray.Direction, config.NearClip, config.MaxDistance, config.RecursionDepth)

			img.SetRGBA(px, py, color.RGBA())
			stats.Pixels++
			if !hit {
				stats.BackgroundPixels++
			}
		}
	}

	return stats
}
