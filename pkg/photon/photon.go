// Package photon implements the discrete photon-packet simulator: puck
// launch, per-tick kinematics with wavelength-dependent dispersion,
// trajectory-aware collision detection against the scene elements, and the
// three-mode reflection response selected by an element's reflection
// coefficient.
package photon

import "github.com/df07/go-wave-optics/pkg/core"

// Photon is a single discrete ray-particle. Wavelength is immutable after
// creation; a dead photon is excluded from all future physics and rendering.
type Photon struct {
	Position   core.Vec2
	Velocity   core.Vec2
	Wavelength float64 // Nanometres
	Phase      float64 // Wave phase in radians
	Energy     float64 // 0..1
	Alive      bool
}

// Puck is a wave packet: an ensemble of photons launched together. A puck is
// dead exactly when its age exceeds the configured lifetime or all of its
// photons are dead.
type Puck struct {
	Photons []Photon
	Age     int
	Bounces int
	Alive   bool
	Center  core.Vec2 // Center of mass over living photons
}

// recomputeCenter recalculates the center of mass from living photons and
// reports whether any photon is still alive.
func (pk *Puck) recomputeCenter() bool {
	var sum core.Vec2
	living := 0
	for i := range pk.Photons {
		if pk.Photons[i].Alive {
			sum = sum.Add(pk.Photons[i].Position)
			living++
		}
	}
	if living == 0 {
		return false
	}
	pk.Center = sum.Multiply(1 / float64(living))
	return true
}

// LivingPhotons returns the number of photons still alive
func (pk *Puck) LivingPhotons() int {
	count := 0
	for i := range pk.Photons {
		if pk.Photons[i].Alive {
			count++
		}
	}
	return count
}
