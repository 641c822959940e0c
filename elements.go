package orrery

import (
	"fmt"
	"math"
)

// Rate is one orbital element expressed as a base value at J2000 plus a secular
// drift per Julian century.
type Rate struct {
	Value float64 `mapstructure:"value" json:"value" yaml:"value"`
	Dot   float64 `mapstructure:"dot" json:"dot" yaml:"dot"`
}

// At returns the linearly extrapolated value t centuries after J2000.
func (r Rate) At(t float64) float64 {
	return r.Value + r.Dot*t
}

// Perturbation holds the optional correction terms of the mean anomaly used for the
// outer planets. Each coefficient is independently optional; nil means unset.
// Units are radians based: b in rad/cy², c and s in rad, f in rad/cy.
type Perturbation struct {
	B *float64 `mapstructure:"b" json:"b,omitempty" yaml:"b,omitempty"`
	C *float64 `mapstructure:"c" json:"c,omitempty" yaml:"c,omitempty"`
	S *float64 `mapstructure:"s" json:"s,omitempty" yaml:"s,omitempty"`
	F *float64 `mapstructure:"f" json:"f,omitempty" yaml:"f,omitempty"`
}

// coefficient returns the value of p, or the fallback when unset.
func coefficient(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

// Correction returns b·t² + c·cos(f·t) + s·sin(f·t). Unset coefficients take the
// fallback value, which is 0 except when reproducing legacy output.
func (p Perturbation) Correction(t, fallback float64) float64 {
	b := coefficient(p.B, fallback)
	c := coefficient(p.C, fallback)
	s := coefficient(p.S, fallback)
	f := coefficient(p.F, fallback)
	sft, cft := math.Sincos(f * t)
	return b*t*t + c*cft + s*sft
}

// IsZero returns whether no coefficient is set.
func (p Perturbation) IsZero() bool {
	return p.B == nil && p.C == nil && p.S == nil && p.F == nil
}

// OrbitalElements is the immutable element record of a body: semi-major axis, eccentricity,
// inclination, mean longitude, longitude of periapsis and longitude of the ascending node.
// Angles are in degrees, the semi-major axis in the distance unit of the table (AU for the
// built-in tables).
// Parent is the table key of the body the elements are relative to, empty for the Sun.
type OrbitalElements struct {
	A Rate `mapstructure:"a" json:"a" yaml:"a"`
	E Rate `mapstructure:"e" json:"e" yaml:"e"`
	I Rate `mapstructure:"i" json:"i" yaml:"i"`
	L Rate `mapstructure:"l" json:"l" yaml:"l"`
	B Rate `mapstructure:"b" json:"b" yaml:"b"`
	O Rate `mapstructure:"o" json:"o" yaml:"o"`

	Perturbation Perturbation `mapstructure:"perturbation" json:"perturbation" yaml:"perturbation"`
	Parent       string       `mapstructure:"parent" json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Elements are the instantaneous elements of a body at a given epoch.
// Angles are in degrees.
type Elements struct {
	A, E, I, L, B, O float64
}

// At returns the instantaneous elements t Julian centuries after J2000.
func (o OrbitalElements) At(t float64) Elements {
	return Elements{
		A: o.A.At(t),
		E: o.E.At(t),
		I: o.I.At(t),
		L: o.L.At(t),
		B: o.B.At(t),
		O: o.O.At(t),
	}
}

// Validate checks the element invariants at J2000: a bound ellipse (0 ≤ e < 1) of
// positive size, and finite values everywhere.
func (o OrbitalElements) Validate() error {
	for _, r := range []Rate{o.A, o.E, o.I, o.L, o.B, o.O} {
		if !isFinite(r.Value) || !isFinite(r.Dot) {
			return fmt.Errorf("non finite element in %+v", r)
		}
	}
	if o.A.Value <= 0 {
		return fmt.Errorf("semi major axis must be positive, got %f", o.A.Value)
	}
	if o.E.Value < 0 || o.E.Value >= 1 {
		return fmt.Errorf("eccentricity must be in [0, 1), got %f", o.E.Value)
	}
	return nil
}

// Radians returns the angular elements converted to radians, in the order i, L, ϖ, Ω.
func (e Elements) Radians() (i, L, ϖ, Ω float64) {
	return e.I * deg2rad, e.L * deg2rad, e.B * deg2rad, e.O * deg2rad
}

// ArgPeriapsis returns ω = ϖ - Ω in radians.
func (e Elements) ArgPeriapsis() float64 {
	return (e.B - e.O) * deg2rad
}

// Periapsis returns the periapsis distance.
func (e Elements) Periapsis() float64 {
	return e.A * (1 - e.E)
}

// Apoapsis returns the apoapsis distance.
func (e Elements) Apoapsis() float64 {
	return e.A * (1 + e.E)
}

// SemiMinor returns the semi-minor axis.
func (e Elements) SemiMinor() float64 {
	return e.A * math.Sqrt(1-e.E*e.E)
}

// String implements the stringer interface (hence the value receiver)
func (e Elements) String() string {
	return fmt.Sprintf("a=%.6f e=%.6f i=%.3f L=%.3f ϖ=%.3f Ω=%.3f", e.A, e.E, e.I, Rad2deg(e.L*deg2rad), Rad2deg(e.B*deg2rad), Rad2deg(e.O*deg2rad))
}
