package renderer

import (
	"context"
	"testing"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/scene"
)

func newTestRenderer(width, height int, config Config) *Renderer {
	s := scene.NewScene("test", core.NewAABB(core.NewVec2(0, 0), core.NewVec2(float64(width), float64(height))))
	s.Sources = []scene.Source{{
		Position:   core.NewVec2(10, float64(height)/2),
		Wavelength: 550,
		Amplitude:  1.0,
	}}
	return NewRenderer(s, width, height, config, core.NewDefaultLogger())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.TileSize != 64 {
		t.Errorf("Expected tile size 64, got %d", config.TileSize)
	}
	if config.InitialSamplesPerPixel != 1 {
		t.Errorf("Expected 1 initial sample, got %d", config.InitialSamplesPerPixel)
	}
	if config.MaxSamplesPerPixel != 16 {
		t.Errorf("Expected 16 max samples, got %d", config.MaxSamplesPerPixel)
	}
	if config.MaxPasses != 4 {
		t.Errorf("Expected 4 max passes, got %d", config.MaxPasses)
	}
	if !config.Falloff {
		t.Errorf("Expected falloff enabled by default")
	}
}

func TestSamplesForPass_GeometricRamp(t *testing.T) {
	config := DefaultConfig()
	r := newTestRenderer(32, 32, config)

	// Doubling ramp with the last pass pinned to the maximum
	expected := []int{1, 2, 4, 16}
	for i, want := range expected {
		if got := r.samplesForPass(i + 1); got != want {
			t.Errorf("Pass %d: expected %d samples, got %d", i+1, want, got)
		}
	}
}

func TestSamplesForPass_CapsAtMax(t *testing.T) {
	config := DefaultConfig()
	config.InitialSamplesPerPixel = 8
	config.MaxSamplesPerPixel = 16
	config.MaxPasses = 5
	r := newTestRenderer(32, 32, config)

	expected := []int{8, 16, 16, 16, 16}
	for i, want := range expected {
		if got := r.samplesForPass(i + 1); got != want {
			t.Errorf("Pass %d: expected %d samples, got %d", i+1, want, got)
		}
	}
}

func TestNewTileGrid_CoversImage(t *testing.T) {
	tiles := NewTileGrid(100, 50, 32, 42)

	// Ceiling division: 4 columns by 2 rows
	if len(tiles) != 8 {
		t.Fatalf("Expected 8 tiles, got %d", len(tiles))
	}

	covered := make(map[[2]int]bool)
	for _, tile := range tiles {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				key := [2]int{x, y}
				if covered[key] {
					t.Fatalf("Pixel (%d,%d) covered by more than one tile", x, y)
				}
				covered[key] = true
			}
		}
	}
	if len(covered) != 100*50 {
		t.Errorf("Expected full coverage of %d pixels, got %d", 100*50, len(covered))
	}

	// Edge tiles are clipped to the image
	last := tiles[len(tiles)-1]
	if last.Bounds.Max.X != 100 || last.Bounds.Max.Y != 50 {
		t.Errorf("Expected last tile clipped to (100,50), got %v", last.Bounds.Max)
	}
}

func TestRenderProgressive_DeliversPasses(t *testing.T) {
	config := DefaultConfig()
	config.TileSize = 16
	config.MaxPasses = 3
	config.MaxSamplesPerPixel = 4
	config.NumWorkers = 2
	r := newTestRenderer(48, 32, config)

	passChan, errChan := r.RenderProgressive(context.Background())

	var passes []PassResult
	for result := range passChan {
		passes = append(passes, result)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("RenderProgressive failed: %v", err)
	}

	if len(passes) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(passes))
	}
	if !passes[len(passes)-1].IsLast {
		t.Errorf("Expected final pass flagged as last")
	}

	prevSamples := 0
	for i, pass := range passes {
		if pass.PassNumber != i+1 {
			t.Errorf("Expected pass number %d, got %d", i+1, pass.PassNumber)
		}
		if pass.Image == nil {
			t.Fatalf("Pass %d produced no image", i+1)
		}
		bounds := pass.Image.Bounds()
		if bounds.Dx() != 48 || bounds.Dy() != 32 {
			t.Errorf("Pass %d: expected 48x32 image, got %dx%d", i+1, bounds.Dx(), bounds.Dy())
		}
		if pass.Stats.TotalSamples <= prevSamples {
			t.Errorf("Pass %d: expected sample count to grow, got %d after %d",
				i+1, pass.Stats.TotalSamples, prevSamples)
		}
		prevSamples = pass.Stats.TotalSamples
	}

	// All pixels converge to the same sample count on the final pass
	final := passes[len(passes)-1].Stats
	if final.MinSamples != 4 || final.MaxSamplesUsed != 4 {
		t.Errorf("Expected uniform 4 samples/pixel, got min=%d max=%d",
			final.MinSamples, final.MaxSamplesUsed)
	}
	if final.TotalPixels != 48*32 {
		t.Errorf("Expected %d pixels, got %d", 48*32, final.TotalPixels)
	}
}

func TestRenderProgressive_Cancellation(t *testing.T) {
	config := DefaultConfig()
	config.TileSize = 16
	r := newTestRenderer(32, 32, config)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, errChan := r.RenderProgressive(ctx)
	for range passChan {
	}
	if err := <-errChan; err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRender_ReturnsFinalImage(t *testing.T) {
	config := DefaultConfig()
	config.TileSize = 16
	config.MaxPasses = 2
	config.MaxSamplesPerPixel = 2
	config.NumWorkers = 2
	r := newTestRenderer(32, 32, config)

	img, stats, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img == nil {
		t.Fatal("Render returned nil image")
	}
	if stats.MaxSamplesUsed != 2 {
		t.Errorf("Expected 2 samples/pixel after final pass, got %d", stats.MaxSamplesUsed)
	}
}

func TestRenderProgressive_Deterministic(t *testing.T) {
	config := DefaultConfig()
	config.TileSize = 16
	config.MaxPasses = 2
	config.MaxSamplesPerPixel = 2
	config.NumWorkers = 3

	r1 := newTestRenderer(32, 32, config)
	r2 := newTestRenderer(32, 32, config)

	img1, _, err := r1.Render(context.Background())
	if err != nil {
		t.Fatalf("First render failed: %v", err)
	}
	img2, _, err := r2.Render(context.Background())
	if err != nil {
		t.Fatalf("Second render failed: %v", err)
	}

	for i := range img1.Pix {
		if img1.Pix[i] != img2.Pix[i] {
			t.Fatalf("Renders diverged at byte %d: %d vs %d", i, img1.Pix[i], img2.Pix[i])
		}
	}
}
