package element

import (
	"math"

	"github.com/df07/go-wave-optics/pkg/core"
)

// Curved elements model their surface as the parabola x = y²/(4·curvature)
// in the local frame. Intersection has no nice closed form once the element
// is rotated into a finite segment test, so the ray path is walked in
// sub-steps and each sub-step is matched against sampled curve points. The
// sub-step length adapts to the ray so fast rays cannot skip the surface.
const (
	minCurveSubSteps = 10   // Floor for short rays
	maxCurveSubSteps = 2048 // Cap for very long rays
	minCurveSamples  = 64   // Floor for curve sampling across the length
	maxCurveSamples  = 4096
)

// parabolaX returns the local x of the curve at local y
func parabolaX(curvature, y float64) float64 {
	return y * y / (4 * curvature)
}

// ParabolaPoint returns the local-frame point of the curve at local y
func ParabolaPoint(curvature, y float64) core.Vec2 {
	return core.NewVec2(parabolaX(curvature, y), y)
}

// ParabolaNormal returns the local-frame unit normal of the curve at local y.
// The tangent direction is (dx/dy, 1) with dx/dy = y/(2·curvature); the
// normal is the tangent rotated by 90°.
func ParabolaNormal(curvature, y float64) core.Vec2 {
	tangent := core.NewVec2(y/(2*curvature), 1).Normalize()
	return core.NewVec2(tangent.Y, -tangent.X)
}

// ClosestCurvePoint finds the sampled curve point nearest to the local point
// p, searching across the element's full length at roughly unit spacing.
// Returns the curve point and its distance to p.
func ClosestCurvePoint(curvature, length float64, p core.Vec2) (core.Vec2, float64) {
	samples := int(math.Ceil(length))
	if samples < minCurveSamples {
		samples = minCurveSamples
	}
	if samples > maxCurveSamples {
		samples = maxCurveSamples
	}

	halfL := length / 2
	best := ParabolaPoint(curvature, -halfL)
	bestDist := p.Distance(best)

	for i := 1; i <= samples; i++ {
		y := -halfL + length*float64(i)/float64(samples)
		candidate := ParabolaPoint(curvature, y)
		if d := p.Distance(candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}

	return best, bestDist
}

// curvedHit walks the segment in sub-steps and reports the first sub-step
// whose closest approach to the parabola falls within the contact tolerance
// (half thickness plus half a sub-step, so consecutive samples overlap).
// Returns the world-space contact point and the local y of the nearest
// curve point.
func (b *body) curvedHit(x1, y1, x2, y2 float64) (core.Vec2, float64, bool) {
	p1 := core.NewVec2(x1, y1)
	p2 := core.NewVec2(x2, y2)
	rayLen := p2.Subtract(p1).Length()

	// Sub-steps no longer than the half-thickness (at least unit length)
	stepLen := math.Max(b.thickness/2, 1.0)
	steps := int(math.Ceil(rayLen / stepLen))
	if steps < minCurveSubSteps {
		steps = minCurveSubSteps
	}
	if steps > maxCurveSubSteps {
		steps = maxCurveSubSteps
	}
	tol := b.thickness/2 + rayLen/float64(steps)/2

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		local := b.toLocal(p1.Lerp(p2, t))

		curvePoint, dist := ClosestCurvePoint(b.curvature, b.length, local)
		if dist <= tol {
			return b.toWorld(curvePoint), curvePoint.Y, true
		}
	}

	return core.Vec2{}, 0, false
}

// CurveContactTolerance is the contact distance used when testing whether a
// point touches a curved element's surface.
func CurveContactTolerance(el Element) float64 {
	return el.Thickness()/2 + 0.5
}

// CurveNormalAt returns the world-space unit normal of a curved element at
// local y, oriented against the supplied approach direction so that
// approach·normal <= 0.
func CurveNormalAt(el Element, localY float64, approach core.Vec2) core.Vec2 {
	normal := DirToWorld(el, ParabolaNormal(el.Curvature(), localY))
	if approach.Dot(normal) > 0 {
		normal = normal.Negate()
	}
	return normal
}

// ClosestCurveDistance returns the distance from a world-space point to the
// sampled curve of a curved element.
func ClosestCurveDistance(el Element, p core.Vec2) float64 {
	if el.Curvature() == 0 {
		return math.Inf(1)
	}
	_, dist := ClosestCurvePoint(el.Curvature(), el.Length(), ToLocal(el, p))
	return dist
}
