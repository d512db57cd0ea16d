package core

import "math"

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Subtract returns the difference of two vectors
func (v Vec2) Subtract(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Multiply returns the vector scaled by a scalar
func (v Vec2) Multiply(scalar float64) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

// Dot returns the dot product of two vectors
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the scalar z-component of the 2D cross product
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude of the vector
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction
func (v Vec2) Normalize() Vec2 {
	length := v.Length()
	if length == 0 {
		return Vec2{0, 0}
	}
	return Vec2{v.X / length, v.Y / length}
}

// Rotate returns the vector rotated counter-clockwise by angle radians
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Negate returns the negative of the vector
func (v Vec2) Negate() Vec2 {
	return Vec2{-v.X, -v.Y}
}

// Distance returns the Euclidean distance between two points
func (v Vec2) Distance(other Vec2) float64 {
	return v.Subtract(other).Length()
}

// Lerp returns the linear interpolation between v and other at parameter t
func (v Vec2) Lerp(other Vec2, t float64) Vec2 {
	return Vec2{
		X: v.X + (other.X-v.X)*t,
		Y: v.Y + (other.Y-v.Y)*t,
	}
}

// Ray represents a ray with an origin and direction.
// When built with NewSegment, parameter t in [0,1] spans the segment.
type Ray struct {
	Origin Vec2
	Dir    Vec2
}

// NewRay creates a new ray
func NewRay(origin, dir Vec2) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// NewSegment creates a ray whose t in [0,1] covers the segment from a to b
func NewSegment(a, b Vec2) Ray {
	return Ray{Origin: a, Dir: b.Subtract(a)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec2 {
	return r.Origin.Add(r.Dir.Multiply(t))
}

// Length returns the length of the ray's direction vector
func (r Ray) Length() float64 {
	return r.Dir.Length()
}
