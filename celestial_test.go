package orrery

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestKey(t *testing.T) {
	for name, exp := range map[string]string{
		"Earth":        "earth",
		"Cool Planet":  "cool_planet",
		" Mars ":       "mars",
		"cool_planet":  "cool_planet",
		"Big Red Spot": "big_red_spot",
	} {
		if k := Key(name); k != exp {
			t.Fatalf("Key(%q)=%q != %q", name, k, exp)
		}
	}
}

func TestTables(t *testing.T) {
	short, long := ShortTable(), LongTable()
	if len(short) != 10 || len(long) != 10 {
		t.Fatalf("expected the eight planets, Pluto and the Moon, got %d and %d", len(short), len(long))
	}
	if short["moon"].Parent != "earth" || long["moon"].Parent != "earth" {
		t.Fatal("the moon orbits the earth")
	}
	for _, table := range []Table{short, long} {
		for name, el := range table {
			if err := el.Validate(); err != nil {
				t.Fatalf("%s: %s", name, err)
			}
		}
	}
	for _, name := range []string{"mercury", "venus", "earth", "mars", "moon"} {
		if !short[name].Perturbation.IsZero() || !long[name].Perturbation.IsZero() {
			t.Fatalf("%s has no perturbation terms", name)
		}
	}
	for _, name := range []string{"jupiter", "saturn", "uranus", "neptune"} {
		p := long[name].Perturbation
		if p.B == nil || p.C == nil || p.S == nil || p.F == nil {
			t.Fatalf("%s should have all four terms", name)
		}
	}
	pluto := long["pluto"].Perturbation
	if pluto.B == nil || pluto.C != nil || pluto.S != nil || pluto.F != nil {
		t.Fatal("pluto only has b")
	}
	if !floats.EqualWithinAbs(*pluto.B, -0.01262724*math.Pi/180, 1e-15) {
		t.Fatalf("b not converted to radians: %g", *pluto.B)
	}
	// Tables are fresh copies.
	short["earth"] = OrbitalElements{}
	if ShortTable()["earth"].A.Value == 0 {
		t.Fatal("table was shared")
	}
}

func TestTableLookup(t *testing.T) {
	table := ShortTable()
	if _, err := table.Lookup("Jupiter"); err != nil {
		t.Fatal(err)
	}
	if _, err := table.Lookup("vulcan"); err == nil {
		t.Fatal("vulcan should not exist")
	}
	names := table.Names()
	if names[0] != "earth" || names[len(names)-1] != "venus" {
		t.Fatalf("names not sorted: %v", names)
	}
	clone := table.Clone()
	delete(clone, "earth")
	if _, ok := table["earth"]; !ok {
		t.Fatal("clone is not a copy")
	}
}

func TestCelestialObjectFromString(t *testing.T) {
	table := ShortTable()
	table["cool_planet"] = earthLike()
	earth, err := CelestialObjectFromString("Earth", table)
	if err != nil {
		t.Fatal(err)
	}
	if earth.Radius != EarthRadiusAU || earth.String() != "Earth body" {
		t.Fatalf("unexpected %+v", earth)
	}
	jupiter, _ := CelestialObjectFromString("jupiter", table)
	if !floats.EqualWithinRel(jupiter.Radius, 10.973*EarthRadiusAU, 1e-12) {
		t.Fatalf("jupiter radius %g", jupiter.Radius)
	}
	cool, err := CelestialObjectFromString("Cool Planet", table)
	if err != nil || cool.Radius != EarthRadiusAU {
		t.Fatalf("unknown radius should default to Earth's: %+v %v", cool, err)
	}
	moon, _ := CelestialObjectFromString("Moon", table)
	if moon.Parent != "earth" || !floats.EqualWithinRel(moon.Radius, 0.2727*EarthRadiusAU, 1e-12) {
		t.Fatalf("unexpected %+v", moon)
	}
	if earth.Parent != "" {
		t.Fatal("the earth orbits the sun")
	}
	if _, err := CelestialObjectFromString("vulcan", table); err == nil {
		t.Fatal("expected an error")
	}
}

func TestEarthAtJ2000(t *testing.T) {
	// The Earth-Moon barycenter is at about (-0.177, 0.967, 0) AU in the ecliptic frame.
	for _, table := range []Table{ShortTable(), LongTable()} {
		pos, err := Position(table["earth"], 0)
		if err != nil {
			t.Fatal(err)
		}
		if !vectorsEqual(pos[:], []float64{-0.177, 0, 0.967}, 0.01) {
			t.Fatalf("earth at J2000: %v", pos)
		}
	}
}

func TestPlanetDistances(t *testing.T) {
	for name, o := range LongTable() {
		for tc := -10.0; tc <= 10; tc += 0.5 {
			pos, err := Position(o, tc)
			if err != nil {
				t.Fatalf("%s at %f: %s", name, tc, err)
			}
			el := o.At(tc)
			if r := pos.Norm(); r < el.Periapsis()-1e-9 || r > el.Apoapsis()+1e-9 {
				t.Fatalf("%s at %f: |r|=%f outside [%f, %f]", name, tc, r, el.Periapsis(), el.Apoapsis())
			}
		}
	}
}
