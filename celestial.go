package orrery

import (
	"fmt"
	"sort"
	"strings"
)

// EarthRadiusAU is Earth's radius in AU, the reference unit radius of orbit curves.
const EarthRadiusAU = 0.00004259

// CelestialObject defines a body tracked by the simulation.
type CelestialObject struct {
	Name     string
	Parent   string  // key of the body it orbits, empty for the Sun
	Radius   float64 // AU
	Elements OrbitalElements
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Key returns the table key of a body name: lower case with spaces as underscores,
// so "Cool Planet" is "cool_planet".
func Key(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Table maps a body key (see Key) to its elements.
type Table map[string]OrbitalElements

// Names returns the sorted keys of the table.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the elements of the named body.
func (t Table) Lookup(name string) (OrbitalElements, error) {
	el, ok := t[Key(name)]
	if !ok {
		return OrbitalElements{}, fmt.Errorf("undefined body '%s'", name)
	}
	return el, nil
}

// Clone returns a copy of the table; perturbation coefficients are shared since they are
// never written through.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

func rate(value, dot float64) Rate {
	return Rate{Value: value, Dot: dot}
}

// degrees returns a pointer to v converted to radians.
func degrees(v float64) *float64 {
	v *= deg2rad
	return &v
}

// perturbation converts the degree based b, c, s, f of the ephemeris tables.
func perturbation(b, c, s, f float64) Perturbation {
	return Perturbation{B: degrees(b), C: degrees(c), S: degrees(s), F: degrees(f)}
}

// radians converts coefficients given in degrees, as published, to the radian based ones.
func (p Perturbation) radians() Perturbation {
	conv := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		return degrees(*v)
	}
	return Perturbation{B: conv(p.B), C: conv(p.C), S: conv(p.S), F: conv(p.F)}
}

// moon returns the mean geocentric elements of the Moon referred to the ecliptic of J2000
// (Meeus, Astronomical Algorithms, chapter 47), a = 384400 km.
func moon() OrbitalElements {
	return OrbitalElements{A: rate(0.00256955529, 0), E: rate(0.0549, 0), I: rate(5.145, 0),
		L: rate(218.3164477, 481267.88123421), B: rate(83.3532465, 4069.0137287), O: rate(125.0445479, -1934.1362891),
		Parent: "earth"}
}

// ShortTable returns the approximate planetary elements valid from 1800 to 2050
// (Standish, "Keplerian Elements for Approximate Positions of the Major Planets", table 1).
// The Moon is included, relative to the Earth.
func ShortTable() Table {
	return Table{
		"mercury": {A: rate(0.38709927, 0.00000037), E: rate(0.20563593, 0.00001906), I: rate(7.00497902, -0.00594749),
			L: rate(252.25032350, 149472.67411175), B: rate(77.45779628, 0.16047689), O: rate(48.33076593, -0.12534081)},
		"venus": {A: rate(0.72333566, 0.00000390), E: rate(0.00677672, -0.00004107), I: rate(3.39467605, -0.00078890),
			L: rate(181.97909950, 58517.81538729), B: rate(131.60246718, 0.00268329), O: rate(76.67984255, -0.27769418)},
		"earth": {A: rate(1.00000261, 0.00000562), E: rate(0.01671123, -0.00004392), I: rate(-0.00001531, -0.01294668),
			L: rate(100.46457166, 35999.37244981), B: rate(102.93768193, 0.32327364), O: rate(0, 0)},
		"mars": {A: rate(1.52371034, 0.00001847), E: rate(0.09339410, 0.00007882), I: rate(1.84969142, -0.00813131),
			L: rate(-4.55343205, 19140.30268499), B: rate(-23.94362959, 0.44441088), O: rate(49.55953891, -0.29257343)},
		"jupiter": {A: rate(5.20288700, -0.00011607), E: rate(0.04838624, -0.00013253), I: rate(1.30439695, -0.00183714),
			L: rate(34.39644051, 3034.74612775), B: rate(14.72847983, 0.21252668), O: rate(100.47390909, 0.20469106)},
		"saturn": {A: rate(9.53667594, -0.00125060), E: rate(0.05386179, -0.00050991), I: rate(2.48599187, 0.00193609),
			L: rate(49.95424423, 1222.49362201), B: rate(92.59887831, -0.41897216), O: rate(113.66242448, -0.28867794)},
		"uranus": {A: rate(19.18916464, -0.00196176), E: rate(0.04725744, -0.00004397), I: rate(0.77263783, -0.00242939),
			L: rate(313.23810451, 428.48202785), B: rate(170.95427630, 0.40805281), O: rate(74.01692503, 0.04240589)},
		"neptune": {A: rate(30.06992276, 0.00026291), E: rate(0.00859048, 0.00005105), I: rate(1.77004347, 0.00035372),
			L: rate(-55.12002969, 218.45945325), B: rate(44.96476227, -0.32241464), O: rate(131.78422574, -0.00508664)},
		"pluto": {A: rate(39.48211675, -0.00031596), E: rate(0.24882730, 0.00005170), I: rate(17.14001206, 0.00004818),
			L: rate(238.92903833, 145.20780515), B: rate(224.06891629, -0.04062942), O: rate(110.30393684, -0.01183482)},
		"moon": moon(),
	}
}

// LongTable returns the approximate planetary elements valid from 3000 BC to 3000 AD,
// including the extra mean anomaly terms of the outer planets (Standish, tables 2a and 2b).
// The Moon is included, relative to the Earth.
func LongTable() Table {
	return Table{
		"mercury": {A: rate(0.38709843, 0), E: rate(0.20563661, 0.00002123), I: rate(7.00559432, -0.00590158),
			L: rate(252.25166724, 149472.67486623), B: rate(77.45771895, 0.15940013), O: rate(48.33961819, -0.12214182)},
		"venus": {A: rate(0.72332102, -0.00000026), E: rate(0.00676399, -0.00005107), I: rate(3.39777545, 0.00043494),
			L: rate(181.97970850, 58517.81560260), B: rate(131.76755713, 0.05679648), O: rate(76.67261496, -0.27274174)},
		"earth": {A: rate(1.00000018, -0.00000003), E: rate(0.01673163, -0.00003661), I: rate(-0.00054346, -0.01337178),
			L: rate(100.46691572, 35999.37306329), B: rate(102.93005885, 0.31795260), O: rate(-5.11260389, -0.24123856)},
		"mars": {A: rate(1.52371243, 0.00000097), E: rate(0.09336511, 0.00009149), I: rate(1.85181869, -0.00724757),
			L: rate(-4.56813164, 19140.29934243), B: rate(-23.91744784, 0.45223625), O: rate(49.71320984, -0.26852431)},
		"jupiter": {A: rate(5.20248019, -0.00002864), E: rate(0.04853590, 0.00018026), I: rate(1.29861416, -0.00322699),
			L: rate(34.33479152, 3034.90371757), B: rate(14.27495244, 0.18199196), O: rate(100.29282654, 0.13024619),
			Perturbation: perturbation(-0.00012452, 0.06064060, -0.35635438, 38.35125000)},
		"saturn": {A: rate(9.54149883, -0.00003065), E: rate(0.05550825, -0.00032044), I: rate(2.49424102, 0.00451969),
			L: rate(50.07571329, 1222.11494724), B: rate(92.86136063, 0.54179478), O: rate(113.63998702, -0.25015002),
			Perturbation: perturbation(0.00025899, -0.13434469, 0.87320147, 38.35125000)},
		"uranus": {A: rate(19.18797948, -0.00020455), E: rate(0.04685740, -0.00001550), I: rate(0.77298127, -0.00180155),
			L: rate(314.20276625, 428.49512595), B: rate(172.43404441, 0.09266985), O: rate(73.96250215, 0.05739699),
			Perturbation: perturbation(0.00058331, -0.97731848, 0.17689245, 7.67025000)},
		"neptune": {A: rate(30.06952752, 0.00006447), E: rate(0.00895439, 0.00000818), I: rate(1.77005520, 0.00022400),
			L: rate(304.22289287, 218.46515314), B: rate(46.68158724, 0.01009938), O: rate(131.78635853, -0.00606302),
			Perturbation: perturbation(-0.00041348, 0.68346318, -0.10162547, 7.67025000)},
		"pluto": {A: rate(39.48686035, 0.00449751), E: rate(0.24885238, 0.00006016), I: rate(17.14104260, 0.00000501),
			L: rate(238.96535011, 145.18042903), B: rate(224.09702598, -0.00968827), O: rate(110.30167986, -0.00809981),
			Perturbation: Perturbation{B: degrees(-0.01262724)}},
		"moon": moon(),
	}
}

// radii of the planets in AU, relative to Earth's.
var radii = map[string]float64{
	"mercury": EarthRadiusAU * 0.3829,
	"venus":   EarthRadiusAU * 0.9499,
	"earth":   EarthRadiusAU,
	"mars":    EarthRadiusAU * 0.533,
	"jupiter": EarthRadiusAU * 10.973,
	"saturn":  EarthRadiusAU * 9.1402,
	"uranus":  EarthRadiusAU * 3.929,
	"neptune": EarthRadiusAU * 3.883,
	"pluto":   EarthRadiusAU * 0.1868,
	"moon":    EarthRadiusAU * 0.2727,
}

// CelestialObjectFromString returns the object from its name using the provided table.
// Bodies without a known radius get Earth's. The parent is not resolved here.
func CelestialObjectFromString(name string, table Table) (CelestialObject, error) {
	el, err := table.Lookup(name)
	if err != nil {
		return CelestialObject{}, err
	}
	radius, ok := radii[Key(name)]
	if !ok {
		radius = EarthRadiusAU
	}
	return CelestialObject{Name: name, Parent: Key(el.Parent), Radius: radius, Elements: el}, nil
}
