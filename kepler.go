package orrery

import (
	"errors"
	"fmt"
	"math"
)

const (
	// KeplerTolerance is the convergence threshold on the eccentric anomaly step, in radians.
	KeplerTolerance = 1e-6
	// KeplerMaxIterations bounds the Newton-Raphson loop.
	KeplerMaxIterations = 100000
)

// ErrNonConvergence is matched by every NonConvergenceError.
var ErrNonConvergence = errors.New("kepler: no convergence")

// NonConvergenceError is returned when Kepler's equation cannot be solved, either because
// the iteration cap was reached or because the input cannot describe a bound ellipse
// (e outside [0, 1), or NaN/Inf anywhere).
type NonConvergenceError struct {
	M, Eccentricity float64
	Iterations      int
	Reason          string
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("kepler: no convergence for M=%g e=%g after %d iterations: %s", e.M, e.Eccentricity, e.Iterations, e.Reason)
}

// Is makes errors.Is(err, ErrNonConvergence) true.
func (e *NonConvergenceError) Is(target error) bool {
	return target == ErrNonConvergence
}

// SolveKepler returns the eccentric anomaly E (radians) such that M = E - e·sin(E),
// using Newton-Raphson from E₀ = M + e·sin(M).
func SolveKepler(M, e float64) (float64, error) {
	switch {
	case !isFinite(M) || !isFinite(e):
		return 0, &NonConvergenceError{M: M, Eccentricity: e, Reason: "non finite input"}
	case e < 0 || e >= 1:
		return 0, &NonConvergenceError{M: M, Eccentricity: e, Reason: "eccentricity outside [0, 1)"}
	}
	E := M + e*math.Sin(M)
	for iter := 1; iter <= KeplerMaxIterations; iter++ {
		sinE, cosE := math.Sincos(E)
		ΔM := M - (E - e*sinE)
		ΔE := ΔM / (1 - e*cosE)
		E += ΔE
		if math.Abs(ΔE) < KeplerTolerance {
			return E, nil
		}
	}
	return 0, &NonConvergenceError{M: M, Eccentricity: e, Iterations: KeplerMaxIterations, Reason: "iteration cap reached"}
}

// MeanFromEccentric returns the mean anomaly from the eccentric anomaly (Kepler's equation).
func MeanFromEccentric(E, e float64) float64 {
	return E - e*math.Sin(E)
}

// TrueFromEccentric returns the true anomaly, in (-π, π], from the eccentric anomaly.
func TrueFromEccentric(E, e float64) float64 {
	sinE, cosE := math.Sincos(E)
	return math.Atan2(math.Sqrt(1-e*e)*sinE, cosE-e)
}
