package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
	"github.com/df07/go-wave-optics/pkg/photon"
	"github.com/df07/go-wave-optics/pkg/renderer"
	"github.com/df07/go-wave-optics/pkg/scene"
)

const (
	screenWidth  = 1024
	screenHeight = 768

	// Pixels of drag per unit of launch speed
	launchScale = 0.1

	// Low resolution keeps the field underlay render quick
	fieldScaleDown = 4

	// Photons die this far outside the view instead of flying forever
	simMargin = 200.0
)

var (
	wallColor   = color.RGBA{150, 150, 150, 255}
	mirrorColor = color.RGBA{140, 190, 230, 255}
	lensColor   = color.RGBA{100, 150, 255, 160}
)

// Game is the interactive photon sandbox: click and drag to launch photon
// pucks into the current scene, with an optional rendered interference
// field as the backdrop.
type Game struct {
	scene     *scene.Scene
	sceneName string
	sim       *photon.Simulator
	bounds    core.AABB

	paused    bool
	showField bool

	dragging    bool
	dragStart   core.Vec2
	dragCurrent core.Vec2

	fieldMu  sync.Mutex
	fieldImg *ebiten.Image
	fieldRun int // Render generation, bumped on scene change
}

// NewGame creates the sandbox with the named scene loaded
func NewGame(sceneName string) (*Game, error) {
	g := &Game{}
	if err := g.loadScene(sceneName); err != nil {
		return nil, err
	}
	return g, nil
}

// loadScene swaps in a fresh scene and simulator
func (g *Game) loadScene(name string) error {
	sc, err := scene.NewSceneByName(name)
	if err != nil {
		return err
	}
	g.scene = sc
	g.sceneName = name
	g.sim = photon.NewSimulator(sc, photon.DefaultConfig())
	g.bounds = sc.View.Expand(simMargin)
	g.fieldRun++

	g.fieldMu.Lock()
	g.fieldImg = nil
	g.fieldMu.Unlock()
	if g.showField {
		g.renderFieldAsync()
	}
	return nil
}

// renderFieldAsync renders the interference field underlay off the game
// loop. A stale result from a previous scene is dropped.
func (g *Game) renderFieldAsync() {
	run := g.fieldRun
	sc := g.scene

	go func() {
		config := renderer.DefaultConfig()
		config.MaxPasses = 2
		config.MaxSamplesPerPixel = 2
		r := renderer.NewRenderer(sc, screenWidth/fieldScaleDown, screenHeight/fieldScaleDown,
			config, core.NewDefaultLogger())

		img, _, err := r.Render(context.Background())
		if err != nil {
			log.Printf("field render failed: %v", err)
			return
		}

		g.fieldMu.Lock()
		defer g.fieldMu.Unlock()
		if g.fieldRun != run {
			return
		}
		g.fieldImg = ebiten.NewImageFromImage(img)
	}()
}

// Update advances the simulation one tick and handles input
func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if !g.paused {
		g.sim.UpdatePucks(g.bounds)
	}
	return nil
}

func (g *Game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sim.ClearPucks()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.showField = !g.showField
		if g.showField && g.fieldImg == nil {
			g.renderFieldAsync()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.launchDemo()
	}

	// Digits switch between the prebuilt scenes
	names := scene.ListSceneNames()
	for i, key := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
		ebiten.KeyDigit4, ebiten.KeyDigit5} {
		if i < len(names) && inpututil.IsKeyJustPressed(key) {
			if err := g.loadScene(names[i]); err != nil {
				return err
			}
		}
	}

	// Scroll adjusts how strongly photons scatter at slit edges
	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		g.sim.SetDiffractionStrength(g.sim.DiffractionStrength() + wheelY*2)
	}

	// Click and drag aims a puck: press sets the origin, the release
	// vector sets the velocity
	mx, my := ebiten.CursorPosition()
	cursor := core.NewVec2(float64(mx), float64(my))
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.dragStart = cursor
	}
	if g.dragging {
		g.dragCurrent = cursor
	}
	if g.dragging && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
		v := g.dragCurrent.Subtract(g.dragStart).Multiply(launchScale)
		if v.Length() > 0.5 {
			g.sim.LaunchPuck(g.dragStart.X, g.dragStart.Y, v.X, v.Y)
		}
	}

	return nil
}

// launchDemo fires a puck from each scene source along the optical axis
func (g *Game) launchDemo() {
	for _, src := range g.scene.Sources {
		g.sim.LaunchPuck(src.Position.X, src.Position.Y, 20, 0)
	}
}

// Draw renders the field underlay, the optical elements, the living
// photons and the HUD
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{16, 16, 24, 255})

	if g.showField {
		g.fieldMu.Lock()
		img := g.fieldImg
		g.fieldMu.Unlock()
		if img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(fieldScaleDown, fieldScaleDown)
			screen.DrawImage(img, op)
		}
	}

	for _, el := range g.scene.Elements() {
		g.drawElement(screen, el)
	}

	g.sim.EachPhoton(func(p *photon.Photon) {
		c := renderer.EnergyColor(p.Wavelength, p.Energy)
		vector.DrawFilledCircle(screen, float32(p.Position.X), float32(p.Position.Y), 1.5, c, false)
	})

	if g.dragging {
		vector.StrokeLine(screen, float32(g.dragStart.X), float32(g.dragStart.Y),
			float32(g.dragCurrent.X), float32(g.dragCurrent.Y), 1, color.White, true)
	}

	g.drawHUD(screen)
}

// drawElement renders one optical element by kind
func (g *Game) drawElement(screen *ebiten.Image, el element.Element) {
	switch e := el.(type) {
	case *element.Aperture:
		g.drawApertureBars(screen, e)
	case *element.Grating:
		g.drawGratingBars(screen, e)
	case *element.Lens:
		g.strokeSpan(screen, el, -el.Length()/2, el.Length()/2, 3, lensColor)
		g.drawFocalMarks(screen, e)
	default:
		c := wallColor
		if el.Type() == element.KindMirror {
			c = mirrorColor
		}
		if el.Curvature() != 0 {
			g.strokeCurve(screen, el, c)
		} else {
			g.strokeSpan(screen, el, -el.Length()/2, el.Length()/2, float32(el.Thickness()), c)
		}
	}
}

// drawApertureBars draws the solid spans between slits
func (g *Game) drawApertureBars(screen *ebiten.Image, a *element.Aperture) {
	halfL := a.Length() / 2
	start := -halfL
	for _, slit := range a.SlitPositions() {
		g.strokeSpan(screen, a, start, slit-a.SlitWidth()/2, float32(a.Thickness()), wallColor)
		start = slit + a.SlitWidth()/2
	}
	g.strokeSpan(screen, a, start, halfL, float32(a.Thickness()), wallColor)
}

// drawFocalMarks draws small crosses at both focal points of a lens
func (g *Game) drawFocalMarks(screen *ebiten.Image, l *element.Lens) {
	const arm = 4.0
	for _, side := range []float64{-1, 1} {
		p := element.ToWorld(l, core.NewVec2(side*l.FocalLength(), 0))
		a := element.DirToWorld(l, core.NewVec2(arm, 0))
		b := element.DirToWorld(l, core.NewVec2(0, arm))
		vector.StrokeLine(screen, float32(p.X-a.X), float32(p.Y-a.Y),
			float32(p.X+a.X), float32(p.Y+a.Y), 1, lensColor, true)
		vector.StrokeLine(screen, float32(p.X-b.X), float32(p.Y-b.Y),
			float32(p.X+b.X), float32(p.Y+b.Y), 1, lensColor, true)
	}
}

// drawGratingBars samples the transmission profile along the grating
func (g *Game) drawGratingBars(screen *ebiten.Image, gr *element.Grating) {
	halfL := gr.Length() / 2
	const step = 1.0
	barStart := halfL // Sentinel meaning no open bar
	for y := -halfL; y <= halfL; y += step {
		if !gr.Transmits(y) {
			if barStart == halfL {
				barStart = y
			}
		} else if barStart != halfL {
			g.strokeSpan(screen, gr, barStart, y, float32(gr.Thickness()), wallColor)
			barStart = halfL
		}
	}
	if barStart != halfL {
		g.strokeSpan(screen, gr, barStart, halfL, float32(gr.Thickness()), wallColor)
	}
}

// strokeSpan draws a straight element segment between two local y offsets
func (g *Game) strokeSpan(screen *ebiten.Image, el element.Element, y0, y1 float64, width float32, c color.Color) {
	if y1 <= y0 {
		return
	}
	a := element.ToWorld(el, core.NewVec2(0, y0))
	b := element.ToWorld(el, core.NewVec2(0, y1))
	vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, c, true)
}

// strokeCurve draws a curved element as a polyline along its parabola
func (g *Game) strokeCurve(screen *ebiten.Image, el element.Element, c color.Color) {
	halfL := el.Length() / 2
	const segments = 48
	step := el.Length() / segments

	prev := element.ToWorld(el, element.ParabolaPoint(el.Curvature(), -halfL))
	for i := 1; i <= segments; i++ {
		y := -halfL + float64(i)*step
		next := element.ToWorld(el, element.ParabolaPoint(el.Curvature(), y))
		vector.StrokeLine(screen, float32(prev.X), float32(prev.Y),
			float32(next.X), float32(next.Y), float32(el.Thickness()), c, true)
		prev = next
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	state := "running"
	if g.paused {
		state = "paused"
	}
	hud := fmt.Sprintf("scene: %s [%s]\npucks: %d  photons: %d  bounces: %d\ndiffraction: %.0f  tps: %.0f",
		g.sceneName, state, g.sim.PuckCount(), g.sim.PhotonCount(), g.sim.Bounces(),
		g.sim.DiffractionStrength(), ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, hud, 8, 8)
	ebitenutil.DebugPrintAt(screen,
		"drag: launch  1-5: scene  space: clear  f: field  r: demo  p: pause  wheel: diffraction  esc: quit",
		8, screenHeight-20)
}

// Layout fixes the logical screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	game, err := NewGame("double-slit")
	if err != nil {
		log.Fatalf("loading scene: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Wave Optics Sandbox")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("sandbox: %v", err)
	}
}
