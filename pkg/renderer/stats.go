package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	BackgroundPixels int           // Pixels whose primary ray hit nothing
	TotalTiles       int           // Number of tiles the image was split into
	NumWorkers       int           // Number of parallel workers used
	RecursionDepth   int           // Maximum reflection depth used
	Elapsed          time.Duration // Wall time of the frame
}

// TileStats contains statistics for a single rendered tile
type TileStats struct {
	Pixels           int
	BackgroundPixels int
}

// HitPixels returns how many pixels show a sphere
func (s RenderStats) HitPixels() int {
	return s.TotalPixels - s.BackgroundPixels
}

func (s *RenderStats) addTile(tile TileStats) {
	s.TotalPixels += tile.Pixels
	s.BackgroundPixels += tile.BackgroundPixels
}
