package element

import (
	"fmt"
	"math"

	"github.com/df07/go-wave-optics/pkg/core"
)

// Grating is a periodic transmissive barrier: each period of the pattern
// carries an opaque line of lineWidth with a transmissive opening filling
// the rest of the cell.
type Grating struct {
	body
	period    float64
	lineWidth float64
}

// NewGrating creates a diffraction grating with the given spatial period and
// opaque line width per period.
func NewGrating(pos core.Vec2, angle, length, thickness, reflection, period, lineWidth float64) (*Grating, error) {
	if period <= 0 {
		return nil, fmt.Errorf("grating period must be positive, got %g", period)
	}
	if lineWidth < 0 {
		return nil, fmt.Errorf("grating line width must be non-negative, got %g", lineWidth)
	}
	if lineWidth > period {
		return nil, fmt.Errorf("grating line width %g exceeds period %g", lineWidth, period)
	}
	b, err := newBody(pos, angle, length, thickness, reflection, 0)
	if err != nil {
		return nil, err
	}
	return &Grating{body: b, period: period, lineWidth: lineWidth}, nil
}

// Type returns the element kind
func (g *Grating) Type() Kind { return KindGrating }

// Period returns the spatial period of the grating pattern
func (g *Grating) Period() float64 { return g.period }

// LineWidth returns the opaque line width within each period
func (g *Grating) LineWidth() float64 { return g.lineWidth }

// Transmits reports whether local y falls inside the transmissive opening of
// its period cell. The opening is period−lineWidth wide and centered in each
// cell, with one opening centered on y=0.
func (g *Grating) Transmits(y float64) bool {
	cell := math.Mod(y+g.period/2, g.period)
	if cell < 0 {
		cell += g.period
	}
	return math.Abs(cell-g.period/2) <= (g.period-g.lineWidth)/2
}

// OpeningPositions lists the centers of the transmissive openings along
// local y, sorted ascending, for rendering and secondary-source queries. It
// agrees exactly with the Transmits membership test.
func (g *Grating) OpeningPositions() []float64 {
	halfL := g.length / 2
	var positions []float64
	for y := -math.Floor(halfL/g.period) * g.period; y <= halfL; y += g.period {
		if y >= -halfL {
			positions = append(positions, y)
		}
	}
	return positions
}

// CheckRayIntersection tests the segment against the grating; crossings in a
// transmissive opening pass, crossings on an opaque line block.
func (g *Grating) CheckRayIntersection(x1, y1, x2, y2 float64) (*Intersection, bool) {
	point, localY, ok := g.flatHit(x1, y1, x2, y2)
	if !ok {
		return nil, false
	}
	if g.Transmits(localY) {
		return nil, false
	}
	return &Intersection{Blocked: true, Point: point, Type: HitBlock}, true
}
