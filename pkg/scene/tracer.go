package scene

import (
	"github.com/df07/go-wave-optics/pkg/core"
	"github.com/df07/go-wave-optics/pkg/element"
)

// TraceResult describes the closest qualifying hit along a traced segment
type TraceResult struct {
	Blocked    bool
	Element    element.Element
	Point      core.Vec2
	Type       element.HitType
	PhaseShift float64
	Distance   float64 // Euclidean distance from the ray origin
}

// PathContribution is the amplitude/phase contribution of one source-to-
// target path, consumed by the field renderer.
type PathContribution struct {
	Amplitude float64
	Phase     float64
}

// TraceRay tests the segment (x1,y1)->(x2,y2) against every element and
// returns the qualifying hit (blocking or refracting) closest to the origin,
// or nil if the path is clear. Pure query, no state is mutated.
func (s *Scene) TraceRay(x1, y1, x2, y2 float64) *TraceResult {
	origin := core.NewVec2(x1, y1)
	seg := core.NewSegment(origin, core.NewVec2(x2, y2))

	candidates := s.prefilter().Candidates(seg, nil)

	var closest *TraceResult
	for _, el := range candidates {
		hit, ok := el.CheckRayIntersection(x1, y1, x2, y2)
		if !ok {
			continue
		}
		if !hit.Blocked && hit.Type != element.HitRefract {
			continue
		}

		dist := origin.Distance(hit.Point)
		if closest == nil || dist < closest.Distance {
			closest = &TraceResult{
				Blocked:    hit.Blocked,
				Element:    el,
				Point:      hit.Point,
				Type:       hit.Type,
				PhaseShift: hit.PhaseShift,
				Distance:   dist,
			}
		}
	}

	return closest
}

// CalculateOpticalPath derives the amplitude/phase contribution of the path
// from source to target. An opaque block zeroes the amplitude regardless of
// the element's reflection coefficient; a refracting lens attenuates by
// 1-r and adds its phase shift; a clear path passes unchanged. This is the
// sole bridge between the geometry core and any field renderer — propagation
// phase and distance falloff are the renderer's concern.
func (s *Scene) CalculateOpticalPath(sourceX, sourceY, targetX, targetY, basePhase float64) PathContribution {
	hit := s.TraceRay(sourceX, sourceY, targetX, targetY)
	if hit == nil {
		return PathContribution{Amplitude: 1, Phase: basePhase}
	}

	if hit.Blocked {
		return PathContribution{Amplitude: 0, Phase: basePhase}
	}

	// Refracting hit: transmission attenuated by the element's own
	// reflection coefficient
	amplitude := 1 - hit.Element.ReflectionCoefficient()
	if amplitude < 0 {
		amplitude = 0
	}
	return PathContribution{Amplitude: amplitude, Phase: basePhase + hit.PhaseShift}
}
