// Package scene owns the ordered optical element collection, the continuous
// path tracer over it, and the prebuilt demo scenes shared by the CLI, web
// and sandbox hosts.
package scene

import (
	"fmt"

	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
)

// Source is a coherent monochromatic point emitter
type Source struct {
	Position   core.Vec2
	Wavelength float64 // Nanometres
	Amplitude  float64
	Phase      float64 // Launch phase in radians
}

// Scene aggregates the element collection, the light sources and a
// world-space view rectangle so hosts can render without per-host setup.
//
// The collection is single-threaded by contract: element edits must not
// interleave with a tick or a render pass.
type Scene struct {
	Name    string
	Sources []Source
	View    core.AABB // World-space region of interest

	elements []element.Element
	bvh      *BVH // Lazily rebuilt prefilter over element bounds
}

// NewScene creates an empty scene with the given view rectangle
func NewScene(name string, view core.AABB) *Scene {
	return &Scene{Name: name, View: view}
}

// AddElement appends an element and returns its index
func (s *Scene) AddElement(el element.Element) int {
	s.elements = append(s.elements, el)
	s.bvh = nil
	return len(s.elements) - 1
}

// RemoveElement removes the element at index, compacting the collection.
// Indices of later elements shift down by one.
func (s *Scene) RemoveElement(index int) error {
	if index < 0 || index >= len(s.elements) {
		return fmt.Errorf("element index %d out of range [0,%d)", index, len(s.elements))
	}
	s.elements = append(s.elements[:index], s.elements[index+1:]...)
	s.bvh = nil
	return nil
}

// GetElement returns the element at index
func (s *Scene) GetElement(index int) (element.Element, error) {
	if index < 0 || index >= len(s.elements) {
		return nil, fmt.Errorf("element index %d out of range [0,%d)", index, len(s.elements))
	}
	return s.elements[index], nil
}

// Elements returns the element list for read-only iteration. Callers must
// not mutate the returned slice.
func (s *Scene) Elements() []element.Element {
	return s.elements
}

// ClearElements removes all elements
func (s *Scene) ClearElements() {
	s.elements = nil
	s.bvh = nil
}

// SetElements replaces the entire collection
func (s *Scene) SetElements(els []element.Element) {
	s.elements = els
	s.bvh = nil
}

// Count returns the number of elements
func (s *Scene) Count() int {
	return len(s.elements)
}

// prefilter returns the bounds BVH, rebuilding it after edits
func (s *Scene) prefilter() *BVH {
	if s.bvh == nil {
		s.bvh = NewBVH(s.elements)
	}
	return s.bvh
}

// WhiteSources models white light as n co-located monochromatic sources with
// wavelengths sampled evenly across the visible range.
func WhiteSources(pos core.Vec2, amplitude float64, n int) []Source {
	if n <= 0 {
		return nil
	}
	sources := make([]Source, 0, n)
	for i := 0; i < n; i++ {
		frac := 0.5
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		sources = append(sources, Source{
			Position:   pos,
			Wavelength: core.MinWavelength + frac*(core.MaxWavelength-core.MinWavelength),
			Amplitude:  amplitude,
		})
	}
	return sources
}
