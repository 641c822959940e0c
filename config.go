package orrery

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config is the simulation configuration.
type Config struct {
	Rate          float64       // simulated days per real second
	Tick          time.Duration // real time between two steps
	Start         float64       // initial epoch, Julian centuries since J2000
	Paused        bool
	Legacy        bool // see Propagator.LegacyPerturbationDefaults
	Workers       int
	UnitRadius    float64
	DistanceScale float64 // applied by exporters, never by the propagation
	Bodies        []string
	Table         Table
}

// DefaultConfig returns the configuration used when nothing is set: all planets of the
// short table at J2000, five days per second, a step every 10 ms.
func DefaultConfig() Config {
	table := ShortTable()
	return Config{
		Rate:          DefaultRate,
		Tick:          10 * time.Millisecond,
		Workers:       1,
		UnitRadius:    EarthRadiusAU,
		DistanceScale: 1,
		Bodies:        table.Names(),
		Table:         table,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("clock.rate", def.Rate)
	v.SetDefault("clock.tick", def.Tick)
	v.SetDefault("clock.paused", false)
	v.SetDefault("propagation.table", "short")
	v.SetDefault("propagation.legacy_defaults", false)
	v.SetDefault("propagation.workers", def.Workers)
	v.SetDefault("geometry.unit_radius", def.UnitRadius)
	v.SetDefault("output.scale", def.DistanceScale)
	v.SetEnvPrefix("orrery")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the configuration file at path (TOML, YAML or JSON, from its extension).
// Environment variables prefixed with ORRERY_ override file values, e.g. ORRERY_CLOCK_RATE.
//
// Bodies are added or replaced under `elements.<name>`, with the same units as the
// published ephemeris tables: angles and their rates in degrees, and the perturbation
// terms b, c, s, f in degrees (b in deg/cy², f in deg/cy). An optional `parent` makes the
// elements relative to another body, as the Moon's are to the Earth.
func LoadConfig(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%s: %s", path, err)
	}
	return decodeConfig(v)
}

// ReadConfig reads a configuration of the provided type ("toml", "yaml", "json").
func ReadConfig(r io.Reader, kind string) (Config, error) {
	v := newViper()
	v.SetConfigType(kind)
	if err := v.ReadConfig(r); err != nil {
		return Config{}, err
	}
	return decodeConfig(v)
}

func decodeConfig(v *viper.Viper) (Config, error) {
	conf := Config{
		Rate:          v.GetFloat64("clock.rate"),
		Tick:          v.GetDuration("clock.tick"),
		Paused:        v.GetBool("clock.paused"),
		Legacy:        v.GetBool("propagation.legacy_defaults"),
		Workers:       v.GetInt("propagation.workers"),
		UnitRadius:    v.GetFloat64("geometry.unit_radius"),
		DistanceScale: v.GetFloat64("output.scale"),
	}
	if conf.Workers < 1 {
		conf.Workers = 1
	}
	if conf.Tick <= 0 {
		return Config{}, fmt.Errorf("clock.tick must be positive, got %s", conf.Tick)
	}

	if v.IsSet("clock.start") {
		start, err := confReadJDEorTime(v, "clock.start")
		if err != nil {
			return Config{}, err
		}
		conf.Start = start
	} else {
		conf.Start = v.GetFloat64("clock.century")
	}

	switch name := strings.ToLower(v.GetString("propagation.table")); name {
	case "short":
		conf.Table = ShortTable()
	case "long":
		conf.Table = LongTable()
	default:
		return Config{}, fmt.Errorf("unknown element table `%s` (should be short or long)", name)
	}

	overrides := make(map[string]OrbitalElements)
	if err := v.UnmarshalKey("elements", &overrides); err != nil {
		return Config{}, fmt.Errorf("could not read elements: %s", err)
	}
	for name, el := range overrides {
		if err := el.Validate(); err != nil {
			return Config{}, fmt.Errorf("elements.%s: %s", name, err)
		}
		el.Perturbation = el.Perturbation.radians()
		el.Parent = Key(el.Parent)
		conf.Table[Key(name)] = el
	}
	for name, el := range conf.Table {
		if el.Parent == "" {
			continue
		}
		if el.Parent == name {
			return Config{}, fmt.Errorf("elements.%s: a body cannot orbit itself", name)
		}
		if _, err := conf.Table.Lookup(el.Parent); err != nil {
			return Config{}, fmt.Errorf("elements.%s.parent: %s", name, err)
		}
	}

	conf.Bodies = v.GetStringSlice("bodies")
	if len(conf.Bodies) == 0 {
		conf.Bodies = conf.Table.Names()
	}
	for i, body := range conf.Bodies {
		if _, err := conf.Table.Lookup(body); err != nil {
			return Config{}, fmt.Errorf("bodies.%d: %s", i, err)
		}
	}
	return conf, nil
}

// confReadJDEorTime reads either a Julian day or a date, and returns Julian centuries.
func confReadJDEorTime(v *viper.Viper, key string) (float64, error) {
	raw := v.Get(key)
	if jde, err := cast.ToFloat64E(raw); err == nil {
		return (jde - J2000) * DaysToCenturies, nil
	}
	dt, err := cast.ToTimeE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %v is neither a Julian day nor a date", key, raw)
	}
	return (julian.TimeToJD(dt) - J2000) * DaysToCenturies, nil
}
