package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Options holds the command line settings for one render
type Options struct {
	Scene     string
	Width     int // 0 = scene config
	Height    int // 0 = scene config
	Depth     int // -1 = scene config
	Workers   int // 0 = auto-detect
	OutputDir string
}

func main() {
	var opts Options
	flag.StringVar(&opts.Scene, "scene", "default", "Built-in scene name or path to a .json scene file")
	flag.IntVar(&opts.Width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&opts.Height, "height", 0, "Image height in pixels (0 = scene default)")
	flag.IntVar(&opts.Depth, "depth", -1, "Reflection recursion depth (-1 = scene default)")
	flag.IntVar(&opts.Workers, "workers", 0, "Number of render workers (0 = auto-detect)")
	flag.StringVar(&opts.OutputDir, "output", "output", "Directory for rendered images")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	fmt.Println("Starting Sphere Raytracer...")

	filename, err := run(context.Background(), opts, renderer.NewDefaultLogger(), time.Now())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

func showHelp() {
	fmt.Println("Sphere Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-8s - %s\n", info.ID, info.Description)
	}
	fmt.Println("  <file>.json - Scene description file")
	fmt.Println()
	fmt.Println("Output will be saved to <output>/<scene>/render_<timestamp>.png")
}

// createScene resolves a built-in scene name or a JSON scene file path
func createScene(name string) (*scene.Scene, error) {
	if strings.HasSuffix(name, ".json") {
		return loaders.LoadScene(name)
	}
	return scene.Create(name)
}

// applyOptions returns the scene with the command line overrides applied
func applyOptions(s *scene.Scene, opts Options) (*scene.Scene, error) {
	config := s.Config
	if opts.Width > 0 {
		config.Width = opts.Width
	}
	if opts.Height > 0 {
		config.Height = opts.Height
	}
	if opts.Depth >= 0 {
		config.RecursionDepth = opts.Depth
	}
	return s.WithConfig(config)
}

// run renders one frame and writes it as a timestamped PNG, returning the file name
func run(ctx context.Context, opts Options, logger core.Logger, now time.Time) (string, error) {
	sceneObj, err := createScene(opts.Scene)
	if err != nil {
		return "", fmt.Errorf("failed to create scene: %w", err)
	}
	if sceneObj, err = applyOptions(sceneObj, opts); err != nil {
		return "", err
	}

	config := renderer.DefaultRenderConfig()
	config.NumWorkers = opts.Workers
	img, _, err := renderer.NewRenderer(sceneObj, config, logger).RenderFrame(ctx)
	if err != nil {
		return "", err
	}

	filename := output.TimestampedPath(opts.OutputDir, sceneObj.Name, now)
	if err := output.SavePNG(img, filename); err != nil {
		return "", err
	}
	return filename, nil
}
