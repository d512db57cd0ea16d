// Package element implements the optical element geometry model and the
// per-element ray intersection engine. Each element lives in a local frame
// where x is the through-thickness axis and y runs along the element length;
// world coordinates are rotated by -angle around the element position to
// enter that frame.
package element

import (
	"github.com/df07/go-wave-optics/pkg/core"
)

// Kind identifies an element variant
type Kind int

const (
	KindWall Kind = iota
	KindAperture
	KindLens
	KindGrating
	KindMirror
)

// String returns a human-readable variant name
func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindAperture:
		return "aperture"
	case KindLens:
		return "lens"
	case KindGrating:
		return "grating"
	case KindMirror:
		return "mirror"
	default:
		return "unknown"
	}
}

// HitType classifies the outcome of a ray intersection test
type HitType int

const (
	HitNone HitType = iota
	HitBlock
	HitRefract
	HitReflect
)

// String returns a human-readable hit type name
func (h HitType) String() string {
	switch h {
	case HitBlock:
		return "block"
	case HitRefract:
		return "refract"
	case HitReflect:
		return "reflect"
	default:
		return "none"
	}
}

// Intersection describes where and how a ray meets an element
type Intersection struct {
	Blocked    bool
	Point      core.Vec2 // World-space intersection point
	Type       HitType
	PhaseShift float64 // Non-zero only for refracting hits
}

// Element is the shared contract of all five optical element variants.
// Geometry is immutable after construction.
type Element interface {
	Type() Kind
	Position() core.Vec2
	Angle() float64
	Length() float64
	Thickness() float64
	ReflectionCoefficient() float64
	Curvature() float64 // 0 for flat elements
	Bounds() core.AABB  // World-space conservative box

	// CheckRayIntersection tests the segment (x1,y1)->(x2,y2) against the
	// element and reports the intersection, if any.
	CheckRayIntersection(x1, y1, x2, y2 float64) (*Intersection, bool)
}

// ToLocal transforms a world-space point into the element's local frame
func ToLocal(el Element, p core.Vec2) core.Vec2 {
	return p.Subtract(el.Position()).Rotate(-el.Angle())
}

// ToWorld transforms a local-frame point back to world space
func ToWorld(el Element, p core.Vec2) core.Vec2 {
	return p.Rotate(el.Angle()).Add(el.Position())
}

// DirToWorld rotates a local-frame direction into world space (no translation)
func DirToWorld(el Element, v core.Vec2) core.Vec2 {
	return v.Rotate(el.Angle())
}

// DirToLocal rotates a world-space direction into the element's local frame
func DirToLocal(el Element, v core.Vec2) core.Vec2 {
	return v.Rotate(-el.Angle())
}
