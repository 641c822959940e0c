package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/orrery-sim/orrery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// This tool steps the simulation a fixed number of times and exports every frame.

const (
	defaultConfig = "~~unset~~"
	dateFormat    = "2006-01-02"
)

var (
	confPath    string
	steps       int
	format      string
	date        string
	century     float64
	trace       string
	traceDays   int
	metricsAddr string
	verbose     bool
)

func init() {
	flag.StringVar(&confPath, "config", defaultConfig, "configuration file (TOML, YAML or JSON)")
	flag.IntVar(&steps, "steps", 1, "number of steps to evaluate")
	flag.StringVar(&format, "format", "csv", "output format: csv, json or yaml")
	flag.StringVar(&date, "date", "", "start date ("+dateFormat+"), overrides the configuration")
	flag.Float64Var(&century, "century", 0, "start epoch in Julian centuries since J2000, overrides the configuration")
	flag.StringVar(&trace, "trace", "", "only print the daily positions of this body, relative to the body it orbits")
	flag.IntVar(&traceDays, "days", 1000, "number of days to trace")
	flag.StringVar(&metricsAddr, "metrics", "", "serve prometheus metrics on this address once done, e.g. :9090")
	flag.BoolVar(&verbose, "verbose", false, "debug logging")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	if err := run(logger); err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}

func run(logger kitlog.Logger) error {
	conf := orrery.DefaultConfig()
	if confPath != defaultConfig {
		var err error
		if conf, err = orrery.LoadConfig(confPath); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "century" {
			conf.Start = century
		}
	})
	if date != "" {
		dt, err := time.Parse(dateFormat, date)
		if err != nil {
			return fmt.Errorf("could not parse date `%s`: %s", date, err)
		}
		clock := orrery.NewClock(conf.Rate)
		clock.SetDate(dt)
		conf.Start = clock.Now()
	}

	if trace != "" {
		return printTrace(conf)
	}

	exportFmt, err := orrery.ExportFormatFromString(format)
	if err != nil {
		return err
	}
	exporter, err := orrery.NewExporter(os.Stdout, exportFmt, conf.DistanceScale)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	sim, err := orrery.NewSimulation(conf, orrery.WithLogger(logger), orrery.WithMetrics(orrery.NewMetrics(reg)))
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "starting", "bodies", strings.Join(conf.Bodies, ","), "epoch", sim.Clock.Now(), "date", sim.Clock.Date().Format(dateFormat), "steps", steps)

	ctx := context.Background()
	for step := 0; step < steps; step++ {
		var frame orrery.Frame
		if step == 0 {
			// The first frame is the starting epoch itself.
			frame, err = sim.Evaluate(ctx, sim.Clock.Now())
		} else {
			frame, err = sim.Step(ctx, conf.Tick)
		}
		if err != nil {
			return err
		}
		if err := exporter.Write(frame); err != nil {
			return err
		}
	}
	if err := exporter.Flush(); err != nil {
		return err
	}

	if metricsAddr == "" {
		return nil
	}
	level.Info(logger).Log("msg", "serving metrics", "addr", metricsAddr)
	return http.ListenAndServe(metricsAddr, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

// printTrace prints one position per simulated day, as used to check orbit curves by eye.
func printTrace(conf orrery.Config) error {
	obj, err := orrery.CelestialObjectFromString(trace, conf.Table)
	if err != nil {
		return err
	}
	prop := orrery.Propagator{LegacyPerturbationDefaults: conf.Legacy}
	points, err := prop.Trace(obj.Elements, conf.Start, orrery.DaysToCenturies, traceDays)
	for day, p := range points {
		p = p.Scale(conf.DistanceScale)
		fmt.Printf("%d,%g,%g,%g\n", day, p[0], p[1], p[2])
	}
	return err
}
