package element

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-wave-optics/pkg/core"
)

// Aperture is a barrier with zero or more transmissive slits. Slit placement
// is deterministic and middle-out: odd counts always include a slit centered
// at y=0, even counts place symmetric pairs straddling the center.
type Aperture struct {
	body
	slitCount int
	slitWidth float64
}

// NewAperture creates a slit aperture. slitCount = 0 is a fully solid barrier.
func NewAperture(pos core.Vec2, angle, length, thickness, reflection float64, slitCount int, slitWidth float64) (*Aperture, error) {
	if slitCount < 0 {
		return nil, fmt.Errorf("aperture slit count must be non-negative, got %d", slitCount)
	}
	if slitWidth < 0 {
		return nil, fmt.Errorf("aperture slit width must be non-negative, got %g", slitWidth)
	}
	b, err := newBody(pos, angle, length, thickness, reflection, 0)
	if err != nil {
		return nil, err
	}
	return &Aperture{body: b, slitCount: slitCount, slitWidth: slitWidth}, nil
}

// Type returns the element kind
func (a *Aperture) Type() Kind { return KindAperture }

// SlitCount returns the number of slits
func (a *Aperture) SlitCount() int { return a.slitCount }

// SlitWidth returns the width of each slit
func (a *Aperture) SlitWidth() float64 { return a.slitWidth }

// SlitPositions lists the slit center offsets along local y, sorted
// ascending. Rendering and the pass/block membership test share this
// placement exactly.
//
//   - count 0: none
//   - count 1: a single slit at 0
//   - odd count > 1: 0 plus pairs at ±i·slitWidth·2 for i = 1..count/2
//   - even count: pairs at ±(i+0.5)·slitWidth·2 for i = 0..count/2-1
func (a *Aperture) SlitPositions() []float64 {
	if a.slitCount == 0 {
		return nil
	}

	var positions []float64
	if a.slitCount%2 == 1 {
		positions = append(positions, 0)
		for i := 1; i <= a.slitCount/2; i++ {
			offset := float64(i) * a.slitWidth * 2
			positions = append(positions, offset, -offset)
		}
	} else {
		for i := 0; i < a.slitCount/2; i++ {
			offset := (float64(i) + 0.5) * a.slitWidth * 2
			positions = append(positions, offset, -offset)
		}
	}

	sort.Float64s(positions)
	return positions
}

// InSlit reports whether local y falls inside any slit opening
func (a *Aperture) InSlit(y float64) bool {
	for _, center := range a.SlitPositions() {
		if math.Abs(y-center) <= a.slitWidth/2 {
			return true
		}
	}
	return false
}

// CheckRayIntersection tests the segment against the aperture; crossings
// inside a slit pass through, everything else blocks.
func (a *Aperture) CheckRayIntersection(x1, y1, x2, y2 float64) (*Intersection, bool) {
	point, localY, ok := a.flatHit(x1, y1, x2, y2)
	if !ok {
		return nil, false
	}
	if a.InSlit(localY) {
		return nil, false
	}
	return &Intersection{Blocked: true, Point: point, Type: HitBlock}, true
}
