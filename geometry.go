package orrery

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

const (
	// MinSamples and MaxSamples bound the number of points of an orbit curve.
	MinSamples = 64
	MaxSamples = 1024
)

// Geometry derives the display ellipse of an orbit.
type Geometry struct {
	// UnitRadius is the reference body radius, in the distance unit of the elements,
	// which sets how fine the sampling is. Non positive values use EarthRadiusAU.
	UnitRadius float64
}

// CurveParams describes the osculating ellipse of a body at one epoch.
// The ellipse lies in its orbital plane with the periapsis along +x; CenterOffset is the
// distance from the focus to the centre, which sits on the apoapsis side.
type CurveParams struct {
	Periapsis, Apoapsis       float64
	MajorRadius, MinorRadius  float64
	CenterOffset              float64
	Inclination, Node, ArgPer float64 // radians
	SampleCount               int
}

// Curve returns the ellipse parameters of o at t.
func (g Geometry) Curve(o OrbitalElements, t float64) CurveParams {
	el := o.At(t)
	q := el.Periapsis()
	Q := el.Apoapsis()
	i, _, _, Ω := el.Radians()
	return CurveParams{
		Periapsis:    q,
		Apoapsis:     Q,
		MajorRadius:  el.A,
		MinorRadius:  el.SemiMinor(),
		CenterOffset: Q - (Q+q)/2,
		Inclination:  i,
		Node:         Ω,
		ArgPer:       el.ArgPeriapsis(),
		SampleCount:  g.SampleCount(q, Q),
	}
}

// SampleCount returns the number of segments used to draw an orbit with the given
// periapsis and apoapsis: larger orbits get more, always even and within
// [MinSamples, MaxSamples].
func (g Geometry) SampleCount(q, Q float64) int {
	unit := g.UnitRadius
	if !(unit > 0) {
		unit = EarthRadiusAU
	}
	ratio := (Q + q) / (2 * unit)
	if !(ratio > MinSamples) {
		// Also catches NaN.
		ratio = MinSamples
	}
	n := math.Floor(math.Sqrt(ratio))
	if n >= MaxSamples {
		return MaxSamples
	}
	count := int(n)
	if count%2 != 0 {
		count++
	}
	if count < MinSamples {
		return MinSamples
	}
	return count
}

// Curve uses a Geometry with the default unit radius.
func Curve(o OrbitalElements, t float64) CurveParams {
	return Geometry{}.Curve(o, t)
}

// Rotation returns the orbital plane to ecliptic rotation, identical to the one used by
// the Propagator so the drawn ellipse and the body's path coincide.
func (c CurveParams) Rotation() *mat64.Dense {
	return PerifocalToEcliptic(c.ArgPer, c.Inclination, c.Node)
}

// PointAt returns the render frame point of the ellipse at eccentric anomaly E.
func (c CurveParams) PointAt(E float64) Vector3 {
	return c.pointAt(c.Rotation(), E)
}

func (c CurveParams) pointAt(rot mat64.Matrix, E float64) Vector3 {
	sinE, cosE := math.Sincos(E)
	x := c.MajorRadius*cosE - c.CenterOffset
	y := c.MinorRadius * sinE
	return RenderFrame(MxV33(rot, []float64{x, y, 0}))
}

// Points samples the closed ellipse: SampleCount+1 points, the last equal to the first.
func (c CurveParams) Points() []Vector3 {
	rot := c.Rotation()
	points := make([]Vector3, c.SampleCount+1)
	for k := 0; k < c.SampleCount; k++ {
		points[k] = c.pointAt(rot, twoπ*float64(k)/float64(c.SampleCount))
	}
	points[c.SampleCount] = points[0]
	return points
}

// String implements the stringer interface.
func (c CurveParams) String() string {
	return fmt.Sprintf("q=%.6f Q=%.6f a=%.6f b=%.6f off=%.6f i=%.3f Ω=%.3f ω=%.3f n=%d", c.Periapsis, c.Apoapsis, c.MajorRadius, c.MinorRadius, c.CenterOffset, Rad2deg(c.Inclination), Rad2deg(c.Node), Rad2deg(c.ArgPer), c.SampleCount)
}
