package orrery

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// PerifocalToEcliptic returns the rotation from the orbital plane (x towards periapsis)
// to the ecliptic frame: rotate by ω in the plane, tilt by i, then rotate by Ω.
// All angles are in radians.
func PerifocalToEcliptic(ω, i, Ω float64) *mat64.Dense {
	var tilt, full mat64.Dense
	tilt.Mul(R1(-i), R3(-ω))
	full.Mul(R3(-Ω), &tilt)
	return &full
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat64.Matrix, v []float64) []float64 {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}
