package photon

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
	"github.com/df07/go-wave-optics/pkg/scene"
)

// Config contains photon simulation parameters
type Config struct {
	PhotonsPerPuck      int     // Photons created per launch
	Spread              float64 // Gaussian sigma of launch positions
	Lifetime            int     // Puck lifetime in ticks
	DispersionRate      float64 // Radians of angular spread per tick of age
	DiffractionStrength float64 // 0-100 scattering control, normalized internally
	PhaseConstant       float64 // Phase advance scale, 2π by default
	Seed                uint64  // RNG seed for deterministic runs
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		PhotonsPerPuck:      64,
		Spread:              4.0,
		Lifetime:            900,
		DispersionRate:      2e-5,
		DiffractionStrength: 50,
		PhaseConstant:       2 * math.Pi,
		Seed:                42,
	}
}

// Simulator owns the active puck collection and advances it one tick at a
// time against a read-only scene. Per-frame physics never returns errors and
// never panics; unrecoverable per-photon states mark the photon dead.
type Simulator struct {
	scene      *scene.Scene
	cfg        Config
	pucks      []*Puck
	rng        *rand.Rand
	spread     distuv.Normal  // Launch position distribution
	wavelength distuv.Uniform // White-light wavelength distribution
	unitNormal distuv.Normal  // Unit normal, scaled at use for dispersion
	bounces    int            // Cumulative reflections, for HUD/stats
}

// NewSimulator creates a simulator bound to a scene
func NewSimulator(sc *scene.Scene, cfg Config) *Simulator {
	if cfg.DiffractionStrength < 0 || cfg.DiffractionStrength > 100 {
		cfg.DiffractionStrength = 50 // Defensive midpoint
	}
	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	return &Simulator{
		scene:      sc,
		cfg:        cfg,
		rng:        rand.New(src),
		spread:     distuv.Normal{Mu: 0, Sigma: cfg.Spread, Src: src},
		wavelength: distuv.Uniform{Min: core.MinWavelength, Max: core.MaxWavelength, Src: src},
		unitNormal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// LaunchPuck creates a puck of photons around (x,y) sharing the nominal
// launch velocity (vx,vy). Positions spread with a 2D Gaussian, wavelengths
// sample the visible range uniformly to emulate white light.
func (s *Simulator) LaunchPuck(x, y, vx, vy float64) {
	center := core.NewVec2(x, y)
	velocity := core.NewVec2(vx, vy)

	puck := &Puck{
		Photons: make([]Photon, s.cfg.PhotonsPerPuck),
		Alive:   true,
		Center:  center,
	}
	for i := range puck.Photons {
		puck.Photons[i] = Photon{
			Position:   center.Add(core.NewVec2(s.spread.Rand(), s.spread.Rand())),
			Velocity:   velocity,
			Wavelength: s.wavelength.Rand(),
			Energy:     1.0,
			Alive:      true,
		}
	}

	s.pucks = append(s.pucks, puck)
}

// UpdatePucks advances every living puck by one tick. Iteration during the
// tick is stable; dead pucks compact out afterwards.
func (s *Simulator) UpdatePucks(bounds core.AABB) {
	for _, puck := range s.pucks {
		if !puck.Alive {
			continue
		}

		for i := range puck.Photons {
			if puck.Photons[i].Alive {
				s.updatePhoton(puck, &puck.Photons[i], bounds)
			}
		}

		puck.Age++
		if !puck.recomputeCenter() || puck.Age > s.cfg.Lifetime {
			puck.Alive = false
		}
	}

	// Compact dead pucks between ticks
	living := s.pucks[:0]
	for _, puck := range s.pucks {
		if puck.Alive {
			living = append(living, puck)
		}
	}
	s.pucks = living
}

// updatePhoton advances a single photon one tick: dispersion, pre-motion
// collision check, motion or reflection, phase advance, bounds check.
func (s *Simulator) updatePhoton(puck *Puck, p *Photon, bounds core.AABB) {
	// Wave-packet spreading: small random angular perturbation growing with
	// the puck's age. Rotation preserves speed.
	sigma := float64(puck.Age) * s.cfg.DispersionRate
	if sigma > 0 {
		p.Velocity = p.Velocity.Rotate(s.unitNormal.Rand() * sigma)
	}

	if hit, ok := s.findCollision(p); ok {
		// Lens planes crossed before the contact point still refract
		s.crossLenses(p, hit.point)
		if !p.Alive {
			return
		}
		s.reflectPhoton(p, hit)
		if p.Alive {
			puck.Bounces++
			s.bounces++
		}
	} else {
		next := p.Position.Add(p.Velocity)
		s.crossLenses(p, next)
		p.Position = next
	}

	if !p.Alive {
		return
	}

	// Phase advances with distance traveled in wavelengths
	p.Phase += p.Velocity.Length() / p.Wavelength * s.cfg.PhaseConstant

	if !bounds.Contains(p.Position) {
		p.Alive = false
	}
}

// crossLenses applies any lens planes the step crosses as transparent
// refractions: the thin-lens phase profile plus a transmission factor. Focal
// length only shapes phase, never the velocity.
func (s *Simulator) crossLenses(p *Photon, next core.Vec2) {
	for _, el := range s.scene.Elements() {
		lens, ok := el.(*element.Lens)
		if !ok {
			continue
		}
		hit, ok := lens.CheckRayIntersection(p.Position.X, p.Position.Y, next.X, next.Y)
		if !ok {
			continue
		}
		p.Phase += hit.PhaseShift
		transmission := 1 - lens.ReflectionCoefficient()
		if transmission < 0 {
			transmission = 0
		}
		p.Energy *= transmission
		if p.Energy < energyFloor {
			p.Alive = false
			return
		}
	}
}

// EachPhoton calls fn for every living photon of every living puck
func (s *Simulator) EachPhoton(fn func(p *Photon)) {
	for _, puck := range s.pucks {
		if !puck.Alive {
			continue
		}
		for i := range puck.Photons {
			if puck.Photons[i].Alive {
				fn(&puck.Photons[i])
			}
		}
	}
}

// ClearPucks removes all pucks
func (s *Simulator) ClearPucks() {
	s.pucks = nil
}

// PuckCount returns the number of living pucks
func (s *Simulator) PuckCount() int {
	return len(s.pucks)
}

// PhotonCount returns the number of living photons across all pucks
func (s *Simulator) PhotonCount() int {
	count := 0
	for _, puck := range s.pucks {
		if puck.Alive {
			count += puck.LivingPhotons()
		}
	}
	return count
}

// Bounces returns the cumulative reflection count
func (s *Simulator) Bounces() int {
	return s.bounces
}

// DiffractionStrength returns the current scattering control value
func (s *Simulator) DiffractionStrength() float64 {
	return s.cfg.DiffractionStrength
}

// SetDiffractionStrength tunes the global scattering control, clamped to
// [0,100]
func (s *Simulator) SetDiffractionStrength(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	s.cfg.DiffractionStrength = v
}
