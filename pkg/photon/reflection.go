package photon

import (
	"math"

	"github.com/df07/go-wave-optics/pkg/core"
)

// Reflection response constants. A single reflection coefficient r in [0,2]
// selects one of three regimes: diffuse/absorptive below 1, perfect specular
// at exactly 1, iridescent dispersion above 1.
const (
	maxDiffuseAngle    = math.Pi / 3 // Peak roughness perturbation at r=0
	maxIridescentAngle = math.Pi / 4 // Peak wavelength deviation at r=2
	iridescentBoost    = 0.25        // Energy boost scale in iridescent mode
	energyFloor        = 0.1         // Below this a photon is absorbed
	perfectBand        = 1e-9        // |r-1| within this counts as perfect
	collisionEpsilon   = 0.5         // Extra push-out beyond the thickness
)

// specularReflect returns v - 2(v·n)n, the ideal mirror reflection
func specularReflect(v, n core.Vec2) core.Vec2 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// reflectPhoton applies the reflection response for a resolved collision.
// The photon's velocity is replaced by the regime-specific scattered
// direction and its position snaps to the contact surface, displaced
// outward along the surface normal far enough that the same collision
// cannot re-trigger on the next tick.
func (s *Simulator) reflectPhoton(p *Photon, hit collision) {
	r := hit.el.ReflectionCoefficient()
	strength := s.cfg.DiffractionStrength / 100.0
	spec := specularReflect(p.Velocity, hit.normal)

	switch {
	case math.Abs(r-1) < perfectBand:
		// Perfect mirror: exact specular reflection, no energy change
		p.Velocity = spec

	case r < 1:
		// Diffuse/absorptive: perturb the specular direction by surface
		// roughness and bleed energy toward the 0.3+0.7r retention floor
		maxAngle := (1 - r) * strength * maxDiffuseAngle
		angle := (s.rng.Float64()*2 - 1) * maxAngle
		p.Velocity = spec.Rotate(angle)

		retention := 1 - strength*(1-(0.3+0.7*r))
		p.Energy *= retention
		if p.Energy < energyFloor {
			p.Alive = false
			return
		}

	default:
		// Iridescent dispersion: deterministic wavelength-dependent
		// deviation, shorter wavelengths bending further, with a bounded
		// energy boost from constructive multi-path brightening
		fraction := (core.MaxWavelength - p.Wavelength) / (core.MaxWavelength - core.MinWavelength)
		deviation := (r - 1) * strength * maxIridescentAngle * fraction

		// Sign follows the reflection's tangential direction
		if p.Velocity.Cross(hit.normal) < 0 {
			deviation = -deviation
		}
		p.Velocity = spec.Rotate(deviation)
		p.Energy = math.Min(1, p.Energy+strength*iridescentBoost*(r-1))
	}

	// Snap to the surface and displace along the true world-space normal by
	// a safety margin so the photon starts the next tick clear of the band.
	margin := hit.el.Thickness() + collisionEpsilon
	p.Position = hit.point.Add(hit.normal.Multiply(margin))
}
