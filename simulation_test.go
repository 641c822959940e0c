package orrery

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSimulationEvaluate(t *testing.T) {
	sim, err := NewSimulation(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	frame, err := sim.Evaluate(context.Background(), 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Epoch != 0.1 || len(frame.Bodies) != len(sim.Bodies()) {
		t.Fatalf("unexpected frame %+v", frame)
	}
	for i, b := range frame.Bodies {
		obj := sim.Bodies()[i]
		if b.Name != obj.Name || b.Err != nil {
			t.Fatalf("body %d: %+v", i, b)
		}
		exp, _ := Position(obj.Elements, 0.1)
		if b.Position != exp.Add(b.Origin) {
			t.Fatalf("%s not evaluated at the frame epoch", b.Name)
		}
		if (obj.Parent == "") != (b.Origin == Vector3{}) {
			t.Fatalf("%s: unexpected origin %v", b.Name, b.Origin)
		}
		if b.Curve != Curve(obj.Elements, 0.1) {
			t.Fatalf("%s curve not evaluated at the frame epoch", b.Name)
		}
	}
	if len(frame.Failed()) != 0 {
		t.Fatal("nothing should fail")
	}
}

func TestSimulationParallel(t *testing.T) {
	conf := DefaultConfig()
	serial, _ := NewSimulation(conf)
	conf.Workers = 3
	parallel, _ := NewSimulation(conf)
	for _, tc := range []float64{-2, 0, 0.37} {
		f1, err1 := serial.Evaluate(context.Background(), tc)
		f2, err2 := parallel.Evaluate(context.Background(), tc)
		if err1 != nil || err2 != nil {
			t.Fatalf("%v %v", err1, err2)
		}
		for i := range f1.Bodies {
			if f1.Bodies[i].Name != f2.Bodies[i].Name || f1.Bodies[i].Position != f2.Bodies[i].Position {
				t.Fatalf("parallel evaluation differs for %s", f1.Bodies[i].Name)
			}
		}
	}
}

func TestSimulationStep(t *testing.T) {
	conf := DefaultConfig()
	conf.Start = 0.2
	sim, _ := NewSimulation(conf)
	if sim.Clock.Now() != 0.2 {
		t.Fatalf("clock starts at %f", sim.Clock.Now())
	}
	frame, err := sim.Step(context.Background(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Epoch != sim.Clock.Now() || frame.Epoch <= 0.2 {
		t.Fatalf("frame epoch %f, clock %f", frame.Epoch, sim.Clock.Now())
	}

	conf.Paused = true
	paused, _ := NewSimulation(conf)
	frame, _ = paused.Step(context.Background(), time.Hour)
	if frame.Epoch != 0.2 {
		t.Fatalf("paused simulation moved to %f", frame.Epoch)
	}
}

func TestSimulationFailure(t *testing.T) {
	conf := DefaultConfig()
	conf.Workers = 2
	// e reaches 1 at t=0.5.
	conf.Table["comet"] = OrbitalElements{A: Rate{Value: 3}, E: Rate{Value: 0.9, Dot: 0.2}}
	conf.Bodies = []string{"earth", "comet", "mars"}
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	sim, err := NewSimulation(conf, WithLogger(kitlog.NewLogfmtLogger(&buf)), WithMetrics(metrics))
	if err != nil {
		t.Fatal(err)
	}

	frame, err := sim.Evaluate(context.Background(), 0.1)
	if err != nil || len(frame.Failed()) != 0 {
		t.Fatalf("comet should still be elliptic: %v %v", err, frame.Failed())
	}
	frame, err = sim.Evaluate(context.Background(), 0.75)
	if err != nil {
		t.Fatal(err)
	}
	failed := frame.Failed()
	if len(failed) != 1 || failed[0].Name != "comet" || !errors.Is(failed[0].Err, ErrNonConvergence) {
		t.Fatalf("expected the comet to fail, got %+v", failed)
	}
	if failed[0].Position != (Vector3{}) {
		t.Fatal("failed body must not carry a position")
	}
	if frame.Bodies[0].Err != nil || frame.Bodies[2].Err != nil {
		t.Fatal("other bodies must not be affected")
	}
	if !strings.Contains(buf.String(), "propagation failed") || !strings.Contains(buf.String(), "body=comet") {
		t.Fatalf("failure not logged: %s", buf.String())
	}

	if v := testutil.ToFloat64(metrics.steps); v != 2 {
		t.Fatalf("steps=%f", v)
	}
	if v := testutil.ToFloat64(metrics.propagations.WithLabelValues("ok")); v != 5 {
		t.Fatalf("ok=%f", v)
	}
	if v := testutil.ToFloat64(metrics.propagations.WithLabelValues("failed")); v != 1 {
		t.Fatalf("failed=%f", v)
	}
	if v := testutil.ToFloat64(metrics.epoch); v != 0.75 {
		t.Fatalf("epoch=%f", v)
	}
}

func TestSimulationMoon(t *testing.T) {
	for _, table := range []Table{ShortTable(), LongTable()} {
		conf := DefaultConfig()
		conf.Table = table
		conf.Bodies = []string{"moon", "mars", "earth"}
		conf.Workers = 2
		sim, err := NewSimulation(conf)
		if err != nil {
			t.Fatal(err)
		}
		for tc := -2.0; tc <= 2; tc += 0.013 {
			frame, err := sim.Evaluate(context.Background(), tc)
			if err != nil {
				t.Fatal(err)
			}
			moon, earth := frame.Bodies[0], frame.Bodies[2]
			if moon.Err != nil || moon.Parent != "earth" || moon.Origin != earth.Position {
				t.Fatalf("moon at %f: %+v", tc, moon)
			}
			if d := dist(moon.Position, earth.Position); d > 0.003 || d < 0.0024 {
				t.Fatalf("moon at %f is %f AU from the earth", tc, d)
			}
			if d := moon.Position.Norm(); d < 0.975 || d > 1.025 {
				t.Fatalf("moon at %f is %f AU from the sun", tc, d)
			}
		}
	}
}

func TestSimulationParentFailure(t *testing.T) {
	conf := DefaultConfig()
	// e reaches 1 at t=0.5.
	conf.Table["earth"] = OrbitalElements{A: Rate{Value: 1}, E: Rate{Value: 0.9, Dot: 0.2}}
	conf.Bodies = []string{"moon", "earth", "venus"}
	sim, err := NewSimulation(conf)
	if err != nil {
		t.Fatal(err)
	}
	frame, _ := sim.Evaluate(context.Background(), 0.75)
	failed := frame.Failed()
	if len(failed) != 2 || failed[0].Name != "moon" || failed[1].Name != "earth" {
		t.Fatalf("expected the earth and the moon to fail, got %+v", failed)
	}
	if failed[0].Position != (Vector3{}) || !errors.Is(failed[0].Err, ErrNonConvergence) || !strings.Contains(failed[0].Err.Error(), "parent earth") {
		t.Fatalf("moon should fail because of the earth: %+v", failed[0])
	}
	if frame.Bodies[2].Err != nil {
		t.Fatal("venus must not be affected")
	}
}

func TestSimulationParents(t *testing.T) {
	conf := DefaultConfig()
	conf.Bodies = []string{"moon", "mars"}
	if _, err := NewSimulation(conf); err == nil || !strings.Contains(err.Error(), "not tracked") {
		t.Fatalf("the moon needs the earth, got %v", err)
	}
	conf.Table["a"] = OrbitalElements{A: Rate{Value: 1}, Parent: "b"}
	conf.Table["b"] = OrbitalElements{A: Rate{Value: 1}, Parent: "a"}
	conf.Bodies = []string{"a", "b"}
	if _, err := NewSimulation(conf); err == nil || !strings.Contains(err.Error(), "cyclic") {
		t.Fatalf("expected a cycle, got %v", err)
	}
}

func TestSimulationCanceled(t *testing.T) {
	conf := DefaultConfig()
	for _, workers := range []int{1, 4} {
		conf.Workers = workers
		sim, _ := NewSimulation(conf)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := sim.Evaluate(ctx, 0); !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: expected a cancellation, got %v", workers, err)
		}
	}
}

func TestSimulationUnknownBody(t *testing.T) {
	conf := DefaultConfig()
	conf.Bodies = []string{"vulcan"}
	if _, err := NewSimulation(conf); err == nil {
		t.Fatal("expected an error")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.record(Frame{Epoch: 1, Bodies: []BodyState{{Name: "x"}}}, time.Millisecond)
}
