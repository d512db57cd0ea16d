package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/scene"
)

// Config contains configuration for progressive field rendering
type Config struct {
	TileSize               int  // Size of each tile (64 recommended)
	InitialSamplesPerPixel int  // Samples for the first preview pass
	MaxSamplesPerPixel     int  // Total samples per pixel after the last pass
	MaxPasses              int  // Maximum number of passes
	NumWorkers             int  // Parallel workers (0 = CPU count)
	Falloff                bool // Apply 1/sqrt(d) distance falloff
	Seed                   uint64
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:               64,
		InitialSamplesPerPixel: 1,
		MaxSamplesPerPixel:     16,
		MaxPasses:              4,
		NumWorkers:             0,
		Falloff:                true,
		Seed:                   42,
	}
}

// PassResult contains the result of a single progressive pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// Renderer renders a scene's interference field progressively: a tile grid
// is distributed over a worker pool, each pass raises the per-pixel sample
// count, and every completed pass yields a full image.
type Renderer struct {
	scene      *scene.Scene
	viewport   Viewport
	config     Config
	tiles      []*Tile
	pixelStats [][]PixelStats // Shared stats grid in image coordinates
	sampler    *fieldSampler
	workerPool *WorkerPool
	logger     core.Logger
}

// NewRenderer creates a progressive field renderer for a scene
func NewRenderer(sc *scene.Scene, width, height int, config Config, logger core.Logger) *Renderer {
	viewport := NewViewport(width, height, sc.View)
	sampler := newFieldSampler(sc, config.Falloff)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &Renderer{
		scene:      sc,
		viewport:   viewport,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize, config.Seed),
		pixelStats: pixelStats,
		sampler:    sampler,
		workerPool: NewWorkerPool(sampler, viewport, config.NumWorkers),
		logger:     logger,
	}
}

// samplesForPass returns the target total samples per pixel after the given
// pass: the initial count, then doubling each pass, with the final pass
// always landing on MaxSamplesPerPixel.
func (r *Renderer) samplesForPass(passNumber int) int {
	if passNumber >= r.config.MaxPasses {
		return r.config.MaxSamplesPerPixel
	}
	target := r.config.InitialSamplesPerPixel << (passNumber - 1)
	if target > r.config.MaxSamplesPerPixel {
		target = r.config.MaxSamplesPerPixel
	}
	return target
}

// RenderPass renders a single progressive pass across all tiles
func (r *Renderer) RenderPass(passNumber int) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	targetSamples := r.samplesForPass(passNumber)

	if passNumber == 1 {
		r.workerPool.Start()
	}

	// Submit from a goroutine so result collection below keeps the queues
	// draining regardless of tile count
	go func() {
		for taskID, tile := range r.tiles {
			r.workerPool.SubmitTask(TileTask{
				Tile:          tile,
				TargetSamples: targetSamples,
				TaskID:        taskID,
				PixelStats:    r.pixelStats,
			})
		}
	}()

	for range r.tiles {
		result, ok := r.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}
	}

	img, stats := r.assembleImage(targetSamples)
	stats.Elapsed = time.Since(start)
	return img, stats, nil
}

// RenderProgressive renders with channel-based delivery. The caller reads
// pass results until the channel closes; context cancellation stops the
// render between passes.
func (r *Renderer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer r.workerPool.Stop()

		r.logger.Printf("Rendering %q: %d passes, up to %d samples/pixel\n",
			r.scene.Name, r.config.MaxPasses, r.config.MaxSamplesPerPixel)

		for pass := 1; pass <= r.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			default:
			}

			img, stats, err := r.RenderPass(pass)
			if err != nil {
				errChan <- err
				return
			}

			r.logger.Printf("Pass %d completed in %v (%.1f samples/pixel)\n",
				pass, stats.Elapsed, stats.AverageSamples)

			isLast := pass == r.config.MaxPasses || stats.MaxSamplesUsed >= r.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				return
			}
		}
	}()

	return passChan, errChan
}

// Render is a convenience wrapper returning only the final pass
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	passChan, errChan := r.RenderProgressive(ctx)

	var final PassResult
	for result := range passChan {
		final = result
	}
	if err := <-errChan; err != nil {
		return nil, RenderStats{}, err
	}
	if final.Image == nil {
		return nil, RenderStats{}, fmt.Errorf("render produced no passes")
	}
	return final.Image, final.Stats, nil
}

// assembleImage tone-maps the shared pixel stats into an image and collects
// render statistics in a single sweep
func (r *Renderer) assembleImage(targetSamples int) (*image.RGBA, RenderStats) {
	width, height := r.viewport.WidthPx, r.viewport.HeightPx
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Tone mapping needs the global luminance maximum first
	luminances := make([]float64, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			luminances = append(luminances, r.pixelStats[y][x].Luminance())
		}
	}
	maxLum := floats.Max(luminances)

	stats := RenderStats{
		TotalPixels:  width * height,
		MaxSamples:   targetSamples,
		MinSamples:   r.config.MaxSamplesPerPixel,
		ElementCount: r.scene.Count(),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := &r.pixelStats[y][x]
			pr, pg, pb := pixel.Color()
			img.SetRGBA(x, y, IntensityColor(pr, pg, pb, maxLum))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)

	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int
	Bounds image.Rectangle
	Random *rand.Rand // Tile-specific generator for deterministic jitter
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle, seed uint64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewPCG(uint64(id)+1, seed)),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed uint64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}
