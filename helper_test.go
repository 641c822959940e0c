package orrery

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

const angleε = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees

// vectorsEqual returns whether two vectors are equal within an absolute tolerance.
func vectorsEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in Radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Abs(math.Remainder(a-b, 2*math.Pi))
	if diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", diff/deg2rad)
}

func earthLike() OrbitalElements {
	return OrbitalElements{
		A: Rate{Value: 1.0},
		E: Rate{Value: 0.0167},
		L: Rate{Value: 100.46},
		B: Rate{Value: 102.94},
	}
}

func ptr(v float64) *float64 {
	return &v
}
