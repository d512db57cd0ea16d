package core

import "math"

// AABB represents a 2D axis-aligned bounding box
type AABB struct {
	Min Vec2 // Minimum corner
	Max Vec2 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec2) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec2) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
	}

	return AABB{Min: min, Max: max}
}

// Contains reports whether the point lies inside the box (inclusive)
func (aabb AABB) Contains(p Vec2) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y
}

// Hit tests if a ray intersects with this AABB using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 2; axis++ {
		var min, max, origin, direction float64

		switch axis {
		case 0: // X axis
			min = aabb.Min.X
			max = aabb.Max.X
			origin = ray.Origin.X
			direction = ray.Dir.X
		case 1: // Y axis
			min = aabb.Min.Y
			max = aabb.Max.Y
			origin = ray.Origin.Y
			direction = ray.Dir.Y
		}

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return false // Ray origin outside slab
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection

		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec2{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
	}
	max := Vec2{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
	}
	return AABB{Min: min, Max: max}
}

// Expand returns an AABB expanded by the given margin in all directions
func (aabb AABB) Expand(margin float64) AABB {
	expansion := NewVec2(margin, margin)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec2 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Width returns the extent of the AABB along the x axis
func (aabb AABB) Width() float64 {
	return aabb.Max.X - aabb.Min.X
}

// Height returns the extent of the AABB along the y axis
func (aabb AABB) Height() float64 {
	return aabb.Max.Y - aabb.Min.Y
}
