package photon

import (
	"math"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
)

// collision describes a resolved photon-element contact
type collision struct {
	el     element.Element
	point  core.Vec2 // World-space contact point
	normal core.Vec2 // World-space unit normal opposing the approach
	dist   float64   // Distance from the photon to the contact point
}

// findCollision runs the trajectory-aware pre-motion check of a photon's
// step p -> p+v against every non-lens element and returns the closest
// contact. The test is a segment test rather than a point test so a fast
// photon can never skip a thin barrier in a single tick.
func (s *Simulator) findCollision(p *Photon) (collision, bool) {
	next := p.Position.Add(p.Velocity)

	var closest collision
	found := false
	for _, el := range s.scene.Elements() {
		if el.Type() == element.KindLens {
			continue // Lenses are transparent crossings, handled separately
		}

		var hit collision
		var ok bool
		if el.Curvature() != 0 {
			hit, ok = curvedCollision(el, p.Position, next)
		} else {
			hit, ok = flatCollision(el, p.Position, next, p.Velocity)
		}
		if ok && (!found || hit.dist < closest.dist) {
			closest = hit
			found = true
		}
	}

	return closest, found
}

// flatCollision resolves a photon step against a flat element's thickness
// band. Three degenerate cases plus the normal approach all yield a
// collision so opaque geometry is never crossed silently:
//
//	(a) the photon already sits inside the band: emergency push-out at the
//	    current position, regardless of the length bounds
//	(b) the step crosses the whole band in one tick: tunneling, resolved at
//	    the entry face on the photon's side
//	(c) normal approach from either side: resolved at the crossed face
func flatCollision(el element.Element, p, q, v core.Vec2) (collision, bool) {
	lp := element.ToLocal(el, p)
	lq := element.ToLocal(el, q)

	halfT := el.Thickness() / 2
	halfL := el.Length() / 2

	// Case (a): already inside the thickness band
	if lp.X >= -halfT && lp.X <= halfT {
		// Transmissive openings still pass; everything else force-resolves
		// even outside the length bounds.
		if transmits(el, lp.Y) {
			return collision{}, false
		}
		localNormal := emergencyNormal(lp.X, element.DirToLocal(el, v).X)
		return collision{
			el:     el,
			point:  p,
			normal: element.DirToWorld(el, localNormal),
			dist:   0,
		}, true
	}

	// Photon starts outside the band. No contact if the step stays strictly
	// on the same side.
	if (lp.X > halfT && lq.X > halfT) || (lp.X < -halfT && lq.X < -halfT) {
		return collision{}, false
	}

	// Cases (b) and (c): solve the crossing of the entry face, the band
	// boundary on the photon's side. For a full tunneling crossing this is
	// deliberately the entry surface, not the exit.
	entry := halfT
	if lp.X < -halfT {
		entry = -halfT
	}
	dx := lq.X - lp.X
	if dx == 0 {
		return collision{}, false
	}
	t := (entry - lp.X) / dx
	if t < 0 || t > 1 {
		return collision{}, false
	}

	localY := lp.Y + t*(lq.Y-lp.Y)
	if localY < -halfL || localY > halfL {
		return collision{}, false
	}
	if transmits(el, localY) {
		return collision{}, false
	}

	point := p.Lerp(q, t)
	// Normal points back toward the photon's side
	localNormal := core.NewVec2(1, 0)
	if lp.X < -halfT {
		localNormal = core.NewVec2(-1, 0)
	}

	return collision{
		el:     el,
		point:  point,
		normal: element.DirToWorld(el, localNormal),
		dist:   p.Distance(point),
	}, true
}

// emergencyNormal picks the push-out direction for a photon caught inside
// the thickness band: toward the nearer face, ties resolved against the
// velocity's through-thickness sign.
func emergencyNormal(localX, localVX float64) core.Vec2 {
	switch {
	case localX > 0:
		return core.NewVec2(1, 0)
	case localX < 0:
		return core.NewVec2(-1, 0)
	case localVX > 0:
		return core.NewVec2(-1, 0)
	default:
		return core.NewVec2(1, 0)
	}
}

// transmits reports whether local y lies in a transmissive opening of the
// element (aperture slit or grating gap). Walls and mirrors block along
// their whole length.
func transmits(el element.Element, localY float64) bool {
	switch e := el.(type) {
	case *element.Aperture:
		return e.InSlit(localY)
	case *element.Grating:
		return e.Transmits(localY)
	default:
		return false
	}
}

// curvedCollision resolves a photon step against a curved element by the
// same multi-sample parabola search the ray engine uses, including the
// already-inside emergency case.
func curvedCollision(el element.Element, p, q core.Vec2) (collision, bool) {
	tol := element.CurveContactTolerance(el)

	// Emergency: already within contact tolerance of the curve
	localP := element.ToLocal(el, p)
	cp, dist := element.ClosestCurvePoint(el.Curvature(), el.Length(), localP)
	if dist <= tol {
		// Push straight away from the curve; fall back to the analytic
		// normal if the photon sits exactly on it.
		normal := localP.Subtract(cp)
		if normal.Length() < 1e-12 {
			normal = element.ParabolaNormal(el.Curvature(), cp.Y)
		}
		return collision{
			el:     el,
			point:  element.ToWorld(el, cp),
			normal: element.DirToWorld(el, normal.Normalize()),
			dist:   0,
		}, true
	}

	// Walk the step in sub-steps sized to the contact tolerance
	stepLen := q.Subtract(p).Length()
	steps := int(math.Ceil(stepLen/tol)) + 1
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		local := element.ToLocal(el, p.Lerp(q, t))
		cp, dist := element.ClosestCurvePoint(el.Curvature(), el.Length(), local)
		if dist <= tol {
			point := element.ToWorld(el, cp)
			approach := q.Subtract(p)
			return collision{
				el:     el,
				point:  point,
				normal: element.CurveNormalAt(el, cp.Y, approach),
				dist:   p.Distance(point),
			}, true
		}
	}

	return collision{}, false
}
