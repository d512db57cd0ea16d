package renderer

import (
	"math"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
	"github.com/df07/go-wave-optics/pkg/scene"
)

// lensPathSamples is how many secondary path points span a lens aperture
const lensPathSamples = 24

// waypointOffset clears a secondary source off its element plane before the
// second leg is traced, so the element is not counted twice.
const waypointOffset = 0.5

// fieldSampler evaluates the interference field at world points by coherent
// path summation: for every source, the direct path plus one two-leg path
// through each transmissive opening (aperture slit, grating gap, lens
// sample point) are accumulated into a per-wavelength complex amplitude.
// Intensity is the squared magnitude; the sample color sums wavelength
// colors weighted by intensity.
//
// The sampler is read-only after construction, so render workers share one.
type fieldSampler struct {
	scene     *scene.Scene
	falloff   bool
	waypoints []waypoint
}

// waypoint is a secondary path point on a transmissive element
type waypoint struct {
	pos core.Vec2
	el  element.Element
}

// newFieldSampler precomputes the secondary path points of every
// transmissive element in the scene
func newFieldSampler(sc *scene.Scene, falloff bool) *fieldSampler {
	fs := &fieldSampler{scene: sc, falloff: falloff}

	for _, el := range sc.Elements() {
		switch e := el.(type) {
		case *element.Aperture:
			for _, y := range e.SlitPositions() {
				fs.waypoints = append(fs.waypoints, waypoint{
					pos: element.ToWorld(el, core.NewVec2(0, y)),
					el:  el,
				})
			}
		case *element.Grating:
			for _, y := range e.OpeningPositions() {
				fs.waypoints = append(fs.waypoints, waypoint{
					pos: element.ToWorld(el, core.NewVec2(0, y)),
					el:  el,
				})
			}
		case *element.Lens:
			halfL := e.Length() / 2
			step := e.Length() / lensPathSamples
			for i := 0; i < lensPathSamples; i++ {
				y := -halfL + (float64(i)+0.5)*step
				fs.waypoints = append(fs.waypoints, waypoint{
					pos: element.ToWorld(el, core.NewVec2(0, y)),
					el:  el,
				})
			}
		}
	}

	return fs
}

// attenuate applies the 2D wave distance falloff 1/sqrt(d)
func (fs *fieldSampler) attenuate(d float64) float64 {
	if !fs.falloff {
		return 1
	}
	return 1 / math.Sqrt(math.Max(1, d))
}

// sample evaluates the field at world point p, returning linear RGB
func (fs *fieldSampler) sample(p core.Vec2) (float64, float64, float64) {
	var r, g, b float64

	for _, src := range fs.scene.Sources {
		var re, im float64

		// Direct path
		c := fs.scene.CalculateOpticalPath(src.Position.X, src.Position.Y, p.X, p.Y, src.Phase)
		if c.Amplitude > 0 {
			d := src.Position.Distance(p)
			phase := c.Phase + 2*math.Pi*d/src.Wavelength
			a := src.Amplitude * c.Amplitude * fs.attenuate(d)
			re += a * math.Cos(phase)
			im += a * math.Sin(phase)
		}

		// Two-leg paths through each transmissive opening
		for _, wp := range fs.waypoints {
			c1 := fs.scene.CalculateOpticalPath(src.Position.X, src.Position.Y, wp.pos.X, wp.pos.Y, src.Phase)
			if c1.Amplitude == 0 {
				continue
			}

			dir := p.Subtract(wp.pos)
			if dir.LengthSquared() == 0 {
				continue
			}
			dir = dir.Normalize()
			// Start the second leg clear of the waypoint's own plane
			start := wp.pos.Add(dir.Multiply(wp.el.Thickness()/2 + waypointOffset))

			c2 := fs.scene.CalculateOpticalPath(start.X, start.Y, p.X, p.Y, c1.Phase)
			if c2.Amplitude == 0 {
				continue
			}

			d := src.Position.Distance(wp.pos) + wp.pos.Distance(p)
			phase := c2.Phase + 2*math.Pi*d/src.Wavelength
			a := src.Amplitude * c1.Amplitude * c2.Amplitude * fs.attenuate(d)
			re += a * math.Cos(phase)
			im += a * math.Sin(phase)
		}

		intensity := re*re + im*im
		col := WavelengthColor(src.Wavelength)
		r += col.R * intensity
		g += col.G * intensity
		b += col.B * intensity
	}

	return r, g, b
}
