package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/renderer"
	"github.com/df07/go-wave-optics/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneName := flag.String("scene", "double-slit", "Scene name (see -list)")
	width := flag.Int("width", 800, "Image width in pixels")
	height := flag.Int("height", 600, "Image height in pixels")
	passes := flag.Int("passes", 4, "Number of progressive passes")
	samples := flag.Int("samples", 16, "Maximum samples per pixel")
	workers := flag.Int("workers", 0, "Number of render workers (0 = CPU count)")
	falloff := flag.Bool("falloff", true, "Apply distance falloff to intensity")
	outputDir := flag.String("output", "output", "Output directory")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Wave Optics Field Renderer")
		fmt.Println("Usage: wave-optics [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  " + strings.Join(scene.ListSceneNames(), ", "))
		fmt.Println()
		fmt.Println("Output will be saved to <output>/<scene>/field_<timestamp>.png")
		return
	}

	if *list {
		for _, name := range scene.ListSceneNames() {
			fmt.Println(name)
		}
		return
	}

	selectedScene, err := scene.NewSceneByName(*sceneName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendering scene %q at %dx%d...\n", *sceneName, *width, *height)

	config := renderer.DefaultConfig()
	config.MaxPasses = *passes
	config.MaxSamplesPerPixel = *samples
	config.NumWorkers = *workers
	config.Falloff = *falloff

	r := renderer.NewRenderer(selectedScene, *width, *height, config, core.NewDefaultLogger())

	startTime := time.Now()
	img, stats, err := r.Render(context.Background())
	if err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	filename, err := saveImage(img, *outputDir, *sceneName)
	if err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Field saved as %s\n", filename)
}

// saveImage writes the rendered field to <dir>/<scene>/field_<timestamp>.png
func saveImage(img image.Image, dir, sceneName string) (string, error) {
	sceneDir := filepath.Join(dir, sceneName)
	if err := os.MkdirAll(sceneDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(sceneDir, fmt.Sprintf("field_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", err
	}
	return filename, nil
}
