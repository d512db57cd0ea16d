package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MaxSamples     int           // Maximum samples allowed per pixel
	MinSamples     int           // Minimum samples taken per pixel
	MaxSamplesUsed int           // Maximum samples actually used by any pixel
	ElementCount   int           // Optical elements in the scene
	Elapsed        time.Duration // Wall time of the pass
}

// PixelStats accumulates linear-RGB field samples for a single pixel
type PixelStats struct {
	R, G, B     float64 // Linear RGB accumulators
	SampleCount int
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(r, g, b float64) {
	ps.R += r
	ps.G += g
	ps.B += b
	ps.SampleCount++
}

// Color returns the running-mean linear RGB for this pixel
func (ps *PixelStats) Color() (float64, float64, float64) {
	if ps.SampleCount == 0 {
		return 0, 0, 0
	}
	inv := 1.0 / float64(ps.SampleCount)
	return ps.R * inv, ps.G * inv, ps.B * inv
}

// Luminance returns the perceptual luminance of the pixel's mean color
// using standard weights 0.299R + 0.587G + 0.114B
func (ps *PixelStats) Luminance() float64 {
	r, g, b := ps.Color()
	return 0.299*r + 0.587*g + 0.114*b
}
