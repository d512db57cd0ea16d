package element

import "github.com/df07/go-wave-optics/pkg/core"

// Wall is an opaque barrier. With non-zero curvature it becomes a parabolic
// barrier evaluated by the sampled curve search.
type Wall struct {
	body
}

// NewWall creates a flat wall
func NewWall(pos core.Vec2, angle, length, thickness, reflection float64) (*Wall, error) {
	return NewCurvedWall(pos, angle, length, thickness, reflection, 0)
}

// NewCurvedWall creates a wall whose surface follows the parabola
// x = y²/(4·curvature) in the local frame
func NewCurvedWall(pos core.Vec2, angle, length, thickness, reflection, curvature float64) (*Wall, error) {
	b, err := newBody(pos, angle, length, thickness, reflection, curvature)
	if err != nil {
		return nil, err
	}
	return &Wall{body: b}, nil
}

// Type returns the element kind
func (w *Wall) Type() Kind { return KindWall }

// CheckRayIntersection tests the segment against the wall. Any hit blocks.
func (w *Wall) CheckRayIntersection(x1, y1, x2, y2 float64) (*Intersection, bool) {
	var point core.Vec2
	var ok bool
	if w.curvature != 0 {
		point, _, ok = w.curvedHit(x1, y1, x2, y2)
	} else {
		point, _, ok = w.flatHit(x1, y1, x2, y2)
	}
	if !ok {
		return nil, false
	}
	return &Intersection{Blocked: true, Point: point, Type: HitBlock}, true
}
