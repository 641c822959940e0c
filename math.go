package orrery

import "math"

const (
	deg2rad = math.Pi / 180
	twoπ    = 2 * math.Pi
)

// Vector3 is a position in the render frame, see RenderFrame for the axis order.
type Vector3 [3]float64

// Norm returns the Euclidean norm of the vector.
func (v Vector3) Norm() float64 {
	return norm(v[:])
}

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Scale returns the vector multiplied by s. Display scaling is the caller's job,
// this is only a convenience for it.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v[0] * s, v[1] * s, v[2] * s}
}

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// wrapπ wraps an angle in radians into (-π, π].
func wrapπ(x float64) float64 {
	x = math.Mod(x+math.Pi, twoπ)
	if x <= 0 {
		x += twoπ
	}
	return x - math.Pi
}

// isFinite returns false for NaN and ±Inf.
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, twoπ)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	a = math.Mod(a, twoπ)
	if a < 0 {
		a += twoπ
	}
	return math.Mod(a/deg2rad, 360)
}
