package scene

import (
	"math"
	"testing"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
)

func testWall(t *testing.T, x float64) element.Element {
	t.Helper()
	w, err := element.NewWall(core.NewVec2(x, 0), 0, 200, 4, 0.5)
	if err != nil {
		t.Fatalf("NewWall failed: %v", err)
	}
	return w
}

func testView() core.AABB {
	return core.NewAABB(core.NewVec2(-500, -500), core.NewVec2(500, 500))
}

func TestScene_ElementCollection(t *testing.T) {
	s := NewScene("test", testView())

	i0 := s.AddElement(testWall(t, 10))
	i1 := s.AddElement(testWall(t, 20))
	i2 := s.AddElement(testWall(t, 30))

	if i0 != 0 || i1 != 1 || i2 != 2 {
		t.Errorf("Expected stable indices 0,1,2, got %d,%d,%d", i0, i1, i2)
	}
	if s.Count() != 3 {
		t.Errorf("Expected 3 elements, got %d", s.Count())
	}

	el, err := s.GetElement(1)
	if err != nil {
		t.Fatalf("GetElement(1) failed: %v", err)
	}
	if el.Position().X != 20 {
		t.Errorf("Expected element at x=20, got x=%f", el.Position().X)
	}

	if err := s.RemoveElement(1); err != nil {
		t.Fatalf("RemoveElement(1) failed: %v", err)
	}
	if s.Count() != 2 {
		t.Errorf("Expected 2 elements after removal, got %d", s.Count())
	}

	// Later elements compact down
	el, _ = s.GetElement(1)
	if el.Position().X != 30 {
		t.Errorf("Expected compacted element at x=30, got x=%f", el.Position().X)
	}
}

func TestScene_OutOfRangeErrors(t *testing.T) {
	s := NewScene("test", testView())
	s.AddElement(testWall(t, 10))

	if _, err := s.GetElement(-1); err == nil {
		t.Error("Expected error for negative index")
	}
	if _, err := s.GetElement(1); err == nil {
		t.Error("Expected error for index past the end")
	}
	if err := s.RemoveElement(5); err == nil {
		t.Error("Expected error removing out-of-range index")
	}
}

func TestScene_SetAndClear(t *testing.T) {
	s := NewScene("test", testView())
	s.AddElement(testWall(t, 10))

	s.SetElements([]element.Element{testWall(t, 1), testWall(t, 2)})
	if s.Count() != 2 {
		t.Errorf("Expected wholesale replacement with 2 elements, got %d", s.Count())
	}

	s.ClearElements()
	if s.Count() != 0 {
		t.Errorf("Expected empty scene after clear, got %d", s.Count())
	}
}

func TestWhiteSources(t *testing.T) {
	sources := WhiteSources(core.NewVec2(5, 5), 0.8, 5)
	if len(sources) != 5 {
		t.Fatalf("Expected 5 sources, got %d", len(sources))
	}

	if math.Abs(sources[0].Wavelength-core.MinWavelength) > 1e-9 {
		t.Errorf("Expected first wavelength %f, got %f", core.MinWavelength, sources[0].Wavelength)
	}
	if math.Abs(sources[4].Wavelength-core.MaxWavelength) > 1e-9 {
		t.Errorf("Expected last wavelength %f, got %f", core.MaxWavelength, sources[4].Wavelength)
	}

	for _, src := range sources {
		if src.Position.X != 5 || src.Position.Y != 5 {
			t.Errorf("Expected co-located sources at (5,5), got %v", src.Position)
		}
		if src.Amplitude != 0.8 {
			t.Errorf("Expected amplitude 0.8, got %f", src.Amplitude)
		}
	}

	if WhiteSources(core.NewVec2(0, 0), 1, 0) != nil {
		t.Error("Expected nil for zero source count")
	}
}
