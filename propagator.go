package orrery

import (
	"fmt"
	"math"
)

// RenderFrame is the boundary transform from the ecliptic frame to the frame expected by
// the renderer: (x, y, z) becomes (x, z, y). Every position and curve point leaving this
// package goes through it, nothing else swaps axes.
func RenderFrame(ecl []float64) Vector3 {
	return Vector3{ecl[0], ecl[2], ecl[1]}
}

// Propagator computes body positions from time-varying Keplerian elements.
// The zero value uses the corrected perturbation defaults.
type Propagator struct {
	// LegacyPerturbationDefaults makes unset b, c, s, f coefficients fall back to 1
	// instead of 0. Only useful to reproduce output of older versions bit for bit.
	LegacyPerturbationDefaults bool
}

// Anomalies is the full result of one propagation.
type Anomalies struct {
	M, E, ν  float64 // mean, eccentric and true anomalies in radians
	Radius   float64 // distance from the focus
	Ecliptic []float64
	Position Vector3 // render frame
}

func (p Propagator) fallback() float64 {
	if p.LegacyPerturbationDefaults {
		return 1
	}
	return 0
}

// MeanAnomaly returns M = L - ϖ + b·t² + c·cos(f·t) + s·sin(f·t) wrapped into (-π, π].
func (p Propagator) MeanAnomaly(o OrbitalElements, t float64) float64 {
	_, L, ϖ, _ := o.At(t).Radians()
	return wrapπ(L - ϖ + o.Perturbation.Correction(t, p.fallback()))
}

// Propagate returns the anomalies and the position of the body t centuries after J2000.
func (p Propagator) Propagate(o OrbitalElements, t float64) (Anomalies, error) {
	el := o.At(t)
	i, _, ϖ, Ω := el.Radians()
	ω := ϖ - Ω
	M := p.MeanAnomaly(o, t)
	E, err := SolveKepler(M, el.E)
	if err != nil {
		return Anomalies{}, fmt.Errorf("propagating at t=%g: %w", t, err)
	}
	sinE, cosE := math.Sincos(E)
	xP := el.A * (cosE - el.E)
	yP := el.A * math.Sqrt(1-el.E*el.E) * sinE
	ecl := MxV33(PerifocalToEcliptic(ω, i, Ω), []float64{xP, yP, 0})
	return Anomalies{
		M:        M,
		E:        E,
		ν:        TrueFromEccentric(E, el.E),
		Radius:   el.A * (1 - el.E*cosE),
		Ecliptic: ecl,
		Position: RenderFrame(ecl),
	}, nil
}

// Position returns the unscaled render frame position of the body t centuries after J2000.
func (p Propagator) Position(o OrbitalElements, t float64) (Vector3, error) {
	a, err := p.Propagate(o, t)
	if err != nil {
		return Vector3{}, err
	}
	return a.Position, nil
}

// Ecliptic returns the position in the ecliptic frame, before RenderFrame.
func (p Propagator) Ecliptic(o OrbitalElements, t float64) ([]float64, error) {
	a, err := p.Propagate(o, t)
	if err != nil {
		return nil, err
	}
	return a.Ecliptic, nil
}

// Trace returns n positions starting at t0, one every step centuries.
// It stops at the first failure.
func (p Propagator) Trace(o OrbitalElements, t0, step float64, n int) ([]Vector3, error) {
	points := make([]Vector3, 0, n)
	for k := 0; k < n; k++ {
		pos, err := p.Position(o, t0+float64(k)*step)
		if err != nil {
			return points, err
		}
		points = append(points, pos)
	}
	return points, nil
}

// Position propagates with the default Propagator.
func Position(o OrbitalElements, t float64) (Vector3, error) {
	return Propagator{}.Position(o, t)
}

// Apsides returns the render frame positions of the periapsis and the apoapsis of the
// osculating ellipse at t.
func Apsides(o OrbitalElements, t float64) (peri, apo Vector3) {
	c := Curve(o, t)
	return c.PointAt(0), c.PointAt(math.Pi)
}

// TrueAnomaly returns ν in radians, in (-π, π].
func (a Anomalies) TrueAnomaly() float64 {
	return a.ν
}
