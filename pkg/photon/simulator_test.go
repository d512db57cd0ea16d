package photon

import (
	"math"
	"testing"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
	"github.com/df07/go-wave-optics/pkg/scene"
)

func testBounds() core.AABB {
	return core.NewAABB(core.NewVec2(-1000, -1000), core.NewVec2(1000, 1000))
}

func TestSimulator_LaunchPuck(t *testing.T) {
	sim := newTestSimulator(t)
	sim.LaunchPuck(100, 50, 3, 0)

	if sim.PuckCount() != 1 {
		t.Fatalf("Expected 1 puck, got %d", sim.PuckCount())
	}
	if sim.PhotonCount() != DefaultConfig().PhotonsPerPuck {
		t.Errorf("Expected %d photons, got %d", DefaultConfig().PhotonsPerPuck, sim.PhotonCount())
	}

	sim.EachPhoton(func(p *Photon) {
		if p.Wavelength < core.MinWavelength || p.Wavelength > core.MaxWavelength {
			t.Errorf("Wavelength %f outside the visible range", p.Wavelength)
		}
		if p.Energy != 1.0 {
			t.Errorf("Expected launch energy 1.0, got %f", p.Energy)
		}
		if p.Velocity.X != 3 || p.Velocity.Y != 0 {
			t.Errorf("Expected shared launch velocity (3,0), got %v", p.Velocity)
		}
		// Gaussian spread keeps photons near the launch point
		if p.Position.Distance(core.NewVec2(100, 50)) > 50 {
			t.Errorf("Photon launched implausibly far away: %v", p.Position)
		}
	})
}

func TestSimulator_FreeFlight(t *testing.T) {
	sim := newTestSimulator(t)
	sim.LaunchPuck(0, 0, 5, 0)

	var before []core.Vec2
	sim.EachPhoton(func(p *Photon) { before = append(before, p.Position) })

	sim.UpdatePucks(testBounds())

	i := 0
	sim.EachPhoton(func(p *Photon) {
		moved := p.Position.Subtract(before[i])
		// Age was 0 during the first tick, so dispersion is zero and every
		// photon advances exactly by its velocity
		if math.Abs(moved.X-5) > 1e-9 || math.Abs(moved.Y) > 1e-9 {
			t.Errorf("Photon %d moved by (%f,%f), expected (5,0)", i, moved.X, moved.Y)
		}
		if p.Phase <= 0 {
			t.Errorf("Photon %d phase did not advance: %f", i, p.Phase)
		}
		i++
	})
}

func TestSimulator_TunnelingBlocked(t *testing.T) {
	// Photon fast enough to cross a 4-thick wall in one tick must still
	// collide, resolved at the entry surface
	wall := mustWall(t, 100, 1.0)

	p := &Photon{Position: core.NewVec2(90, 0), Velocity: core.NewVec2(50, 0), Energy: 1, Alive: true}
	hit, ok := flatCollision(wall, p.Position, p.Position.Add(p.Velocity), p.Velocity)
	if !ok {
		t.Fatal("Expected tunneling collision, photon crossed the wall silently")
	}

	// Entry face is at x=98, not the exit face at x=102
	if math.Abs(hit.point.X-98) > 1e-9 {
		t.Errorf("Expected resolution at entry surface x=98, got x=%f", hit.point.X)
	}
	if hit.normal.X != -1 || hit.normal.Y != 0 {
		t.Errorf("Expected normal (-1,0) toward the photon, got (%f,%f)", hit.normal.X, hit.normal.Y)
	}
}

func TestSimulator_EmergencyPushOut(t *testing.T) {
	wall := mustWall(t, 100, 1.0)

	// Photon already inside the thickness band
	p := core.NewVec2(101, 10)
	hit, ok := flatCollision(wall, p, p.Add(core.NewVec2(1, 0)), core.NewVec2(1, 0))
	if !ok {
		t.Fatal("Expected emergency collision for photon inside the band")
	}
	if hit.dist != 0 {
		t.Errorf("Emergency collision should resolve at the current position, dist=%f", hit.dist)
	}
	// Nearer face is +x
	if hit.normal.X != 1 {
		t.Errorf("Expected push-out toward +x, got normal (%f,%f)", hit.normal.X, hit.normal.Y)
	}
}

func TestSimulator_SlitTransmission(t *testing.T) {
	aperture, err := element.NewAperture(core.NewVec2(100, 0), 0, 400, 4, 0.5, 1, 20)
	if err != nil {
		t.Fatalf("NewAperture failed: %v", err)
	}

	// Through the slit center: no collision even when crossing the band
	p := core.NewVec2(90, 0)
	if _, ok := flatCollision(aperture, p, p.Add(core.NewVec2(50, 0)), core.NewVec2(50, 0)); ok {
		t.Error("Expected photon through the slit to pass")
	}

	// Inside the band within the slit: still no emergency
	inside := core.NewVec2(100, 3)
	if _, ok := flatCollision(aperture, inside, inside.Add(core.NewVec2(1, 0)), core.NewVec2(1, 0)); ok {
		t.Error("Expected no emergency push-out inside a slit opening")
	}

	// Off-slit crossing blocks
	off := core.NewVec2(90, 50)
	if _, ok := flatCollision(aperture, off, off.Add(core.NewVec2(50, 0)), core.NewVec2(50, 0)); !ok {
		t.Error("Expected collision outside the slit")
	}
}

func TestSimulator_ContainmentInvariant(t *testing.T) {
	// Photons fired at a wall for many ticks never end a tick strictly
	// inside the wall's thickness x length rectangle
	wall := mustWall(t, 100, 0.8)
	sim := newTestSimulator(t, wall)
	sim.LaunchPuck(0, 0, 7, 0.5)
	sim.LaunchPuck(160, 20, -12, -1) // Approaches from the far side, faster

	halfT := wall.Thickness() / 2
	halfL := wall.Length() / 2

	for tick := 0; tick < 200; tick++ {
		sim.UpdatePucks(testBounds())
		sim.EachPhoton(func(p *Photon) {
			local := element.ToLocal(wall, p.Position)
			if math.Abs(local.X) < halfT && math.Abs(local.Y) < halfL {
				t.Fatalf("Tick %d: photon ended inside the wall at local (%f,%f)", tick, local.X, local.Y)
			}
		})
	}
}

func TestSimulator_Determinism(t *testing.T) {
	build := func() *Simulator {
		sc := scene.NewScene("test", testBounds())
		w, _ := element.NewWall(core.NewVec2(100, 0), 0, 400, 4, 0.5)
		sc.AddElement(w)
		return NewSimulator(sc, DefaultConfig())
	}

	a := build()
	b := build()
	a.LaunchPuck(0, 0, 6, 1)
	b.LaunchPuck(0, 0, 6, 1)

	for tick := 0; tick < 100; tick++ {
		a.UpdatePucks(testBounds())
		b.UpdatePucks(testBounds())
	}

	var positionsA, positionsB []core.Vec2
	a.EachPhoton(func(p *Photon) { positionsA = append(positionsA, p.Position) })
	b.EachPhoton(func(p *Photon) { positionsB = append(positionsB, p.Position) })

	if len(positionsA) != len(positionsB) {
		t.Fatalf("Photon counts diverged: %d vs %d", len(positionsA), len(positionsB))
	}
	for i := range positionsA {
		if positionsA[i] != positionsB[i] {
			t.Fatalf("Photon %d diverged: %v vs %v", i, positionsA[i], positionsB[i])
		}
	}
}

func TestSimulator_PuckLifetime(t *testing.T) {
	sc := scene.NewScene("test", testBounds())
	cfg := DefaultConfig()
	cfg.Lifetime = 5
	sim := NewSimulator(sc, cfg)

	sim.LaunchPuck(0, 0, 0.1, 0)
	for tick := 0; tick < 5; tick++ {
		sim.UpdatePucks(testBounds())
	}
	if sim.PuckCount() != 1 {
		t.Fatalf("Expected puck alive within its lifetime, got %d pucks", sim.PuckCount())
	}

	sim.UpdatePucks(testBounds())
	if sim.PuckCount() != 0 {
		t.Errorf("Expected puck compacted out after lifetime expiry, got %d", sim.PuckCount())
	}
}

func TestSimulator_DeathOutsideBounds(t *testing.T) {
	sim := newTestSimulator(t)
	sim.LaunchPuck(0, 0, 100, 0)

	tight := core.NewAABB(core.NewVec2(-50, -50), core.NewVec2(50, 50))
	sim.UpdatePucks(tight)

	if sim.PhotonCount() != 0 {
		t.Errorf("Expected all photons dead outside bounds, got %d alive", sim.PhotonCount())
	}
	if sim.PuckCount() != 0 {
		t.Errorf("Expected puck dead with all photons, got %d", sim.PuckCount())
	}
}

func TestSimulator_LensCrossing(t *testing.T) {
	lens, err := element.NewLens(core.NewVec2(100, 0), 0, 200, 100, 0.1)
	if err != nil {
		t.Fatalf("NewLens failed: %v", err)
	}
	sim := newTestSimulator(t, lens)

	p := &Photon{Position: core.NewVec2(95, 10), Velocity: core.NewVec2(10, 0), Wavelength: 550, Energy: 1, Alive: true}
	next := p.Position.Add(p.Velocity)
	sim.crossLenses(p, next)

	// Phase picks up the thin-lens profile -10²/(2·100) = -0.5; energy is
	// attenuated by 1-r
	if math.Abs(p.Phase-(-0.5)) > 1e-9 {
		t.Errorf("Expected lens phase shift -0.5, got %f", p.Phase)
	}
	if math.Abs(p.Energy-0.9) > 1e-9 {
		t.Errorf("Expected energy 0.9 after lens transmission, got %f", p.Energy)
	}
	if !p.Alive {
		t.Error("Lens crossing should not kill a healthy photon")
	}
}

func TestSimulator_LensCrossingBeforeCollision(t *testing.T) {
	// A tick whose step crosses a lens plane and then strikes a mirror
	// behind it must still pick up the lens phase and transmission for the
	// prefix up to the contact point
	lens, err := element.NewLens(core.NewVec2(100, 0), 0, 200, 100, 0.1)
	if err != nil {
		t.Fatalf("NewLens failed: %v", err)
	}
	mirror := mustWall(t, 110, 1.0)
	sim := newTestSimulator(t, lens, mirror)

	puck := &Puck{
		Photons: []Photon{{
			Position:   core.NewVec2(95, 10),
			Velocity:   core.NewVec2(30, 0),
			Wavelength: 550,
			Energy:     1,
			Alive:      true,
		}},
		Alive: true,
	}
	p := &puck.Photons[0]
	sim.updatePhoton(puck, p, testBounds())

	if !p.Alive {
		t.Fatal("Photon should survive lens crossing and mirror bounce")
	}
	// Lens transmission 1-r applies even though the tick ends in a bounce
	if math.Abs(p.Energy-0.9) > 1e-9 {
		t.Errorf("Expected energy 0.9 after lens transmission, got %f", p.Energy)
	}
	// Lens profile -10²/(2·100) plus the tick's propagation advance
	wantPhase := -0.5 + 30.0/550.0*2*math.Pi
	if math.Abs(p.Phase-wantPhase) > 1e-9 {
		t.Errorf("Expected phase %f, got %f", wantPhase, p.Phase)
	}
	// Perfect mirror at the entry face x=108 reflects the velocity exactly
	if math.Abs(p.Velocity.X-(-30)) > 1e-9 || math.Abs(p.Velocity.Y) > 1e-9 {
		t.Errorf("Expected reflected velocity (-30,0), got %v", p.Velocity)
	}
	if puck.Bounces != 1 {
		t.Errorf("Expected 1 bounce recorded, got %d", puck.Bounces)
	}
}

func TestSimulator_DiffractionStrengthClamped(t *testing.T) {
	sim := newTestSimulator(t)

	sim.SetDiffractionStrength(250)
	if sim.DiffractionStrength() != 100 {
		t.Errorf("Expected clamp to 100, got %f", sim.DiffractionStrength())
	}
	sim.SetDiffractionStrength(-10)
	if sim.DiffractionStrength() != 0 {
		t.Errorf("Expected clamp to 0, got %f", sim.DiffractionStrength())
	}
}

func TestSimulator_ClearPucks(t *testing.T) {
	sim := newTestSimulator(t)
	sim.LaunchPuck(0, 0, 1, 0)
	sim.LaunchPuck(10, 10, 1, 0)

	sim.ClearPucks()
	if sim.PuckCount() != 0 || sim.PhotonCount() != 0 {
		t.Errorf("Expected empty simulator after clear, got %d pucks / %d photons",
			sim.PuckCount(), sim.PhotonCount())
	}
}
