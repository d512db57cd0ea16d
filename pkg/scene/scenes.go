package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
)

// Prebuilt demo scenes. All of them live in a 1024x768 world with the
// barrier roughly a third of the way in from the left and the source on the
// optical axis, which leaves most of the view for the interference pattern.

const (
	sceneWidth  = 1024.0
	sceneHeight = 768.0

	barrierX  = 340.0
	sourceX   = 80.0
	greenLine = 550.0 // Mid-spectrum wavelength for monochromatic scenes
)

func defaultView() core.AABB {
	return core.NewAABB(core.NewVec2(0, 0), core.NewVec2(sceneWidth, sceneHeight))
}

func axisY() float64 { return sceneHeight / 2 }

func monochromaticSource() []Source {
	return []Source{{
		Position:   core.NewVec2(sourceX, axisY()),
		Wavelength: greenLine,
		Amplitude:  1.0,
	}}
}

// mustElement panics on a construction error. Only the prebuilt scenes use
// it, with constants that are valid by inspection.
func mustElement(el element.Element, err error) element.Element {
	if err != nil {
		panic(fmt.Sprintf("prebuilt scene element: %v", err))
	}
	return el
}

// NewSingleSlitScene builds a single 20-wide slit centered on the optical axis
func NewSingleSlitScene() *Scene {
	s := NewScene("single-slit", defaultView())
	s.Sources = monochromaticSource()
	s.AddElement(mustElement(element.NewAperture(
		core.NewVec2(barrierX, axisY()), 0, sceneHeight, 4, 0.3, 1, 20)))
	return s
}

// NewDoubleSlitScene builds the classic double-slit interference setup
func NewDoubleSlitScene() *Scene {
	s := NewScene("double-slit", defaultView())
	s.Sources = monochromaticSource()
	s.AddElement(mustElement(element.NewAperture(
		core.NewVec2(barrierX, axisY()), 0, sceneHeight, 4, 0.3, 2, 12)))
	return s
}

// NewGratingScene builds a diffraction grating with white light
func NewGratingScene() *Scene {
	s := NewScene("grating", defaultView())
	s.Sources = WhiteSources(core.NewVec2(sourceX, axisY()), 1.0, 5)
	s.AddElement(mustElement(element.NewGrating(
		core.NewVec2(barrierX, axisY()), 0, sceneHeight, 4, 0.3, 24, 14)))
	return s
}

// NewLensScene builds a converging thin lens behind a single slit
func NewLensScene() *Scene {
	s := NewScene("lens", defaultView())
	s.Sources = monochromaticSource()
	s.AddElement(mustElement(element.NewAperture(
		core.NewVec2(barrierX, axisY()), 0, sceneHeight, 4, 0.3, 1, 60)))
	s.AddElement(mustElement(element.NewLens(
		core.NewVec2(barrierX+120, axisY()), 0, 200, 180, 0.1)))
	return s
}

// NewParabolicMirrorScene builds a curved mirror facing a wall with a slit,
// plus a plain wall above for photon scattering.
func NewParabolicMirrorScene() *Scene {
	s := NewScene("parabolic-mirror", defaultView())
	s.Sources = monochromaticSource()
	s.AddElement(mustElement(element.NewCurvedMirror(
		core.NewVec2(sceneWidth-180, axisY()), math.Pi, 420, 6, 1.0, 90)))
	s.AddElement(mustElement(element.NewAperture(
		core.NewVec2(barrierX, axisY()), 0, sceneHeight, 4, 0.3, 1, 40)))
	s.AddElement(mustElement(element.NewWall(
		core.NewVec2(sceneWidth/2, 60), math.Pi/2, 700, 6, 0.6)))
	return s
}

// sceneBuilders maps scene names to constructors
var sceneBuilders = map[string]func() *Scene{
	"single-slit":      NewSingleSlitScene,
	"double-slit":      NewDoubleSlitScene,
	"grating":          NewGratingScene,
	"lens":             NewLensScene,
	"parabolic-mirror": NewParabolicMirrorScene,
}

// ListSceneNames returns the prebuilt scene names, sorted
func ListSceneNames() []string {
	names := make([]string, 0, len(sceneBuilders))
	for name := range sceneBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSceneByName builds a prebuilt scene by name
func NewSceneByName(name string) (*Scene, error) {
	builder, ok := sceneBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (valid: %v)", name, ListSceneNames())
	}
	return builder(), nil
}
