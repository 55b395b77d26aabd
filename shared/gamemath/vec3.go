// Package gamemath holds the small vector and scalar helpers shared by the
// server simulation and the predicting client. It has no dependencies on the
// ECS, the transport or the physics backend.
package gamemath

import "math"

// NearlyZero is the tolerance used by IsNearlyZero and the input dead zone.
const NearlyZero = 1e-4

// Vec3 is a right-handed world vector with Z pointing up.
type Vec3 struct {
	X, Y, Z float64
}

// Up is the world up axis.
var Up = Vec3{Z: 1}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsNearlyZero reports whether every component is within NearlyZero of 0.
func (v Vec3) IsNearlyZero() bool {
	return math.Abs(v.X) <= NearlyZero && math.Abs(v.Y) <= NearlyZero && math.Abs(v.Z) <= NearlyZero
}

// Normalize returns the unit vector of v, or the zero vector if v is too
// short to have a stable direction.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l <= NearlyZero {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}

// Lerp interpolates between two vectors.
func Lerp(from, to Vec3, t float64) Vec3 {
	return from.Add(to.Sub(from).Scale(t))
}
