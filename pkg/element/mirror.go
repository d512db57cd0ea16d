package element

import "github.com/df07/go-wave-optics/pkg/core"

// Mirror is a specular reflector. The intersection test classifies hits as
// HitReflect so callers can distinguish mirrors from plain walls; the
// continuous path tracer still treats the hit as blocking, while the photon
// simulator applies real reflection physics.
type Mirror struct {
	body
}

// NewMirror creates a flat mirror
func NewMirror(pos core.Vec2, angle, length, thickness, reflection float64) (*Mirror, error) {
	return NewCurvedMirror(pos, angle, length, thickness, reflection, 0)
}

// NewCurvedMirror creates a parabolic mirror with surface x = y²/(4·curvature)
func NewCurvedMirror(pos core.Vec2, angle, length, thickness, reflection, curvature float64) (*Mirror, error) {
	b, err := newBody(pos, angle, length, thickness, reflection, curvature)
	if err != nil {
		return nil, err
	}
	return &Mirror{body: b}, nil
}

// Type returns the element kind
func (m *Mirror) Type() Kind { return KindMirror }

// CheckRayIntersection tests the segment against the mirror
func (m *Mirror) CheckRayIntersection(x1, y1, x2, y2 float64) (*Intersection, bool) {
	var point core.Vec2
	var ok bool
	if m.curvature != 0 {
		point, _, ok = m.curvedHit(x1, y1, x2, y2)
	} else {
		point, _, ok = m.flatHit(x1, y1, x2, y2)
	}
	if !ok {
		return nil, false
	}
	return &Intersection{Blocked: true, Point: point, Type: HitReflect}, true
}
