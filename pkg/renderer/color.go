package renderer

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-wave-optics/pkg/core"
)

// WavelengthColor maps a visible wavelength to an approximate display color:
// hue runs from 270° (violet, 380nm) to 0° (red, 750nm) at full saturation.
func WavelengthColor(wavelength float64) colorful.Color {
	frac := (wavelength - core.MinWavelength) / (core.MaxWavelength - core.MinWavelength)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return colorful.Hsv(270*(1-frac), 1, 1)
}

// EnergyColor colors a photon by wavelength with brightness scaled by its
// remaining energy. Used by the sandbox to draw photon sprites.
func EnergyColor(wavelength, energy float64) colorful.Color {
	if energy < 0 {
		energy = 0
	}
	if energy > 1 {
		energy = 1
	}
	frac := (wavelength - core.MinWavelength) / (core.MaxWavelength - core.MinWavelength)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return colorful.Hsv(270*(1-frac), 1, energy)
}

// IntensityColor tone-maps a linear RGB intensity against the running
// image maximum: normalize, clamp, then gamma-2 to lift the dim fringes.
func IntensityColor(r, g, b, maxLuminance float64) color.RGBA {
	if maxLuminance <= 0 {
		return color.RGBA{A: 255}
	}

	toByte := func(c float64) uint8 {
		c = c / maxLuminance
		if c < 0 {
			c = 0
		}
		if c > 1 {
			c = 1
		}
		return uint8(math.Sqrt(c)*255 + 0.5)
	}

	return color.RGBA{R: toByte(r), G: toByte(g), B: toByte(b), A: 255}
}
