package element

import (
	"fmt"

	"github.com/df07/go-wave-optics/pkg/core"
)

// lensThickness is the fixed thin-lens plane thickness used for the band test
const lensThickness = 2.0

// Lens is a thin lens: it never blocks, and crossings within its aperture
// length pick up the quadratic phase profile of an ideal thin lens.
type Lens struct {
	body
	focalLength float64
}

// NewLens creates a thin lens. Focal length is signed, positive = converging.
func NewLens(pos core.Vec2, angle, length, focalLength, reflection float64) (*Lens, error) {
	if focalLength == 0 {
		return nil, fmt.Errorf("lens focal length must be non-zero")
	}
	b, err := newBody(pos, angle, length, lensThickness, reflection, 0)
	if err != nil {
		return nil, err
	}
	return &Lens{body: b, focalLength: focalLength}, nil
}

// Type returns the element kind
func (l *Lens) Type() Kind { return KindLens }

// FocalLength returns the signed focal length
func (l *Lens) FocalLength() float64 { return l.focalLength }

// PhaseShiftAt returns the thin-lens quadratic phase profile -y²/(2f) at
// local y
func (l *Lens) PhaseShiftAt(localY float64) float64 {
	return -localY * localY / (2 * l.focalLength)
}

// CheckRayIntersection tests the segment against the lens plane. The outcome
// is always a refraction; a lens never blocks. Rays outside the aperture
// length miss entirely.
func (l *Lens) CheckRayIntersection(x1, y1, x2, y2 float64) (*Intersection, bool) {
	point, localY, ok := l.flatHit(x1, y1, x2, y2)
	if !ok {
		return nil, false
	}
	return &Intersection{
		Blocked:    false,
		Point:      point,
		Type:       HitRefract,
		PhaseShift: l.PhaseShiftAt(localY),
	}, true
}
