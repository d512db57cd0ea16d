package element

import (
	"fmt"
	"math"

	"github.com/df07/go-wave-optics/pkg/core"
)

// body holds the geometry shared by all element variants
type body struct {
	position   core.Vec2
	angle      float64 // Orientation in radians
	length     float64 // Extent along local y
	thickness  float64 // Extent along local x
	reflection float64 // Reflection coefficient, clamped to [0,2]
	curvature  float64 // 0 = flat, otherwise parabola x = y²/(4·curvature)
}

func newBody(pos core.Vec2, angle, length, thickness, reflection, curvature float64) (body, error) {
	if length < 0 {
		return body{}, fmt.Errorf("element length must be non-negative, got %g", length)
	}
	if thickness < 0 {
		return body{}, fmt.Errorf("element thickness must be non-negative, got %g", thickness)
	}
	return body{
		position:   pos,
		angle:      angle,
		length:     length,
		thickness:  thickness,
		reflection: clampReflection(reflection),
		curvature:  curvature,
	}, nil
}

// clampReflection clamps a reflection coefficient into the valid [0,2] range
func clampReflection(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 2 {
		return 2
	}
	return r
}

func (b *body) Position() core.Vec2            { return b.position }
func (b *body) Angle() float64                 { return b.angle }
func (b *body) Length() float64                { return b.length }
func (b *body) Thickness() float64             { return b.thickness }
func (b *body) ReflectionCoefficient() float64 { return b.reflection }
func (b *body) Curvature() float64             { return b.curvature }

// toLocal transforms a world point into the element's local frame
func (b *body) toLocal(p core.Vec2) core.Vec2 {
	return p.Subtract(b.position).Rotate(-b.angle)
}

// toWorld transforms a local point back into world space
func (b *body) toWorld(p core.Vec2) core.Vec2 {
	return p.Rotate(b.angle).Add(b.position)
}

// Bounds returns a conservative world-space bounding box
func (b *body) Bounds() core.AABB {
	halfT := b.thickness / 2
	halfL := b.length / 2

	// Flat elements span the thickness band; curved elements additionally
	// reach out to the parabola tip at y = ±length/2.
	xMin, xMax := -halfT, halfT
	if b.curvature != 0 {
		tip := parabolaX(b.curvature, halfL)
		xMin = math.Min(xMin, tip-halfT)
		xMax = math.Max(xMax, tip+halfT)
	}

	return core.NewAABBFromPoints(
		b.toWorld(core.NewVec2(xMin, -halfL)),
		b.toWorld(core.NewVec2(xMin, halfL)),
		b.toWorld(core.NewVec2(xMax, -halfL)),
		b.toWorld(core.NewVec2(xMax, halfL)),
	)
}

// flatHit runs the shared flat-plane intersection test: transform the segment
// endpoints into the local frame, find the crossing of the thickness band
// boundary nearest the approach side, and bound-check the local y.
// Returns the world-space hit point and the local y at the crossing.
func (b *body) flatHit(x1, y1, x2, y2 float64) (core.Vec2, float64, bool) {
	l1 := b.toLocal(core.NewVec2(x1, y1))
	l2 := b.toLocal(core.NewVec2(x2, y2))

	halfT := b.thickness / 2
	halfL := b.length / 2

	// Both endpoints strictly on the same side of the thickness band: no crossing
	if (l1.X > halfT && l2.X > halfT) || (l1.X < -halfT && l2.X < -halfT) {
		return core.Vec2{}, 0, false
	}

	var t, localY float64
	switch {
	case l1.X < -halfT || l1.X > halfT:
		// Ray starts outside: solve the crossing of the boundary on the approach side
		boundary := halfT
		if l1.X < -halfT {
			boundary = -halfT
		}
		dx := l2.X - l1.X
		if dx == 0 {
			return core.Vec2{}, 0, false
		}
		t = (boundary - l1.X) / dx
		if t < 0 || t > 1 {
			return core.Vec2{}, 0, false
		}
		localY = l1.Y + t*(l2.Y-l1.Y)
	default:
		// Ray origin already inside the band: report the crossing at the origin
		t = 0
		localY = l1.Y
	}

	if localY < -halfL || localY > halfL {
		return core.Vec2{}, 0, false
	}

	world := core.NewVec2(x1, y1).Lerp(core.NewVec2(x2, y2), t)
	return world, localY, true
}
