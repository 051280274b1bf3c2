// Package math holds the float32 vector helpers used for edge geometry.
package math

import "math"

// Vec3 is a point or direction in model space.
type Vec3 struct {
	X, Y, Z float32
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the Euclidean norm.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length, or the zero vector when v has
// no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

// IsZero reports whether v is the zero vector.
func (v Vec3) IsZero() bool {
	return v == Vec3{}
}

// Direction returns the unit vector pointing from a to b.
func Direction(a, b Vec3) Vec3 {
	return b.Sub(a).Normalize()
}

// FoldedAngleDegrees returns the angle between two directions in degrees,
// folded into [0, 90] so that opposite directions count as parallel.
// Zero-length inputs yield 0.
func FoldedAngleDegrees(a, b Vec3) float32 {
	a, b = a.Normalize(), b.Normalize()
	if a.IsZero() || b.IsZero() {
		return 0
	}
	cos := math.Min(math.Abs(float64(a.Dot(b))), 1)
	return float32(math.Acos(cos) * 180 / math.Pi)
}
