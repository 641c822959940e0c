package orrery

import (
	"context"
	"fmt"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// BodyState is the result of one body for one step. Err is set when the body could not
// be propagated, or when its parent could not, in which case Position is zero and must
// not be drawn.
// Position is absolute: a moon's position includes its parent's. Curve is relative to
// Origin, the parent's position (zero for bodies orbiting the Sun).
type BodyState struct {
	Name     string
	Parent   string
	Radius   float64
	Position Vector3
	Origin   Vector3
	Curve    CurveParams
	Err      error
}

// Frame holds every tracked body at the same epoch.
type Frame struct {
	Epoch  float64
	Bodies []BodyState
}

// Failed returns the states which could not be propagated.
func (f Frame) Failed() []BodyState {
	var failed []BodyState
	for _, b := range f.Bodies {
		if b.Err != nil {
			failed = append(failed, b)
		}
	}
	return failed
}

// Simulation is the explicit context of a run: its clock, the tracked bodies and how to
// propagate them. It replaces any process wide state; callers own it and serialize calls.
type Simulation struct {
	Clock      *Clock
	propagator Propagator
	geometry   Geometry
	bodies     []CelestialObject
	parents    []int // index of the parent in bodies, -1 for the Sun
	workers    int
	logger     kitlog.Logger
	metrics    *Metrics
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger, which defaults to a no-op one.
func WithLogger(logger kitlog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithMetrics records every step in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Simulation) {
		s.metrics = m
	}
}

// NewSimulation builds a simulation from its configuration.
func NewSimulation(conf Config, opts ...Option) (*Simulation, error) {
	bodies := make([]CelestialObject, 0, len(conf.Bodies))
	for _, name := range conf.Bodies {
		obj, err := CelestialObjectFromString(name, conf.Table)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, obj)
	}
	parents, err := resolveParents(bodies)
	if err != nil {
		return nil, err
	}
	clock := NewClock(conf.Rate)
	clock.SetCentury(conf.Start)
	if conf.Paused {
		clock.Pause()
	}
	workers := conf.Workers
	if workers < 1 {
		workers = 1
	}
	s := &Simulation{
		Clock:      clock,
		propagator: Propagator{LegacyPerturbationDefaults: conf.Legacy},
		geometry:   Geometry{UnitRadius: conf.UnitRadius},
		bodies:     bodies,
		parents:    parents,
		workers:    workers,
		logger:     kitlog.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = kitlog.With(s.logger, "component", "simulation")
	return s, nil
}

// Bodies returns the tracked bodies, in configuration order.
func (s *Simulation) Bodies() []CelestialObject {
	return s.bodies
}

// Step advances the clock by the real elapsed time and evaluates every body at the
// new epoch.
func (s *Simulation) Step(ctx context.Context, elapsed time.Duration) (Frame, error) {
	s.Clock.Advance(elapsed)
	return s.Evaluate(ctx, s.Clock.Now())
}

// Evaluate propagates every tracked body at epoch t. Each body sees the same t.
// The returned error is only ever the context's; propagation failures are per body.
func (s *Simulation) Evaluate(ctx context.Context, t float64) (Frame, error) {
	start := time.Now()
	frame := Frame{Epoch: t, Bodies: make([]BodyState, len(s.bodies))}
	if err := ctx.Err(); err != nil {
		return frame, err
	}

	if s.workers == 1 || len(s.bodies) < 2 {
		for idx := range s.bodies {
			if err := ctx.Err(); err != nil {
				return frame, err
			}
			frame.Bodies[idx] = s.evaluate(s.bodies[idx], t)
		}
	} else if err := s.evaluateParallel(ctx, t, frame.Bodies); err != nil {
		return frame, err
	}

	s.compose(frame.Bodies)

	for _, b := range frame.Failed() {
		level.Warn(s.logger).Log("msg", "propagation failed", "body", b.Name, "epoch", t, "err", b.Err)
	}
	took := time.Since(start)
	s.metrics.record(frame, took)
	level.Debug(s.logger).Log("msg", "step", "epoch", t, "bodies", len(frame.Bodies), "took", took)
	return frame, nil
}

// resolveParents returns the index of each body's parent. Every parent must be tracked
// and parent chains must end at the Sun.
func resolveParents(bodies []CelestialObject) ([]int, error) {
	index := make(map[string]int, len(bodies))
	for idx, obj := range bodies {
		index[Key(obj.Name)] = idx
	}
	parents := make([]int, len(bodies))
	for idx, obj := range bodies {
		parents[idx] = -1
		if obj.Parent == "" {
			continue
		}
		p, ok := index[obj.Parent]
		if !ok {
			return nil, fmt.Errorf("%s orbits %s, which is not tracked", obj.Name, obj.Parent)
		}
		parents[idx] = p
	}
	for idx := range bodies {
		p := parents[idx]
		for depth := 0; p >= 0; depth++ {
			if depth == len(bodies) {
				return nil, fmt.Errorf("%s: cyclic parents", bodies[idx].Name)
			}
			p = parents[p]
		}
	}
	return parents, nil
}

// compose turns the positions of bodies with a parent, which are relative after
// evaluation, into absolute ones using the parent's state from the same frame.
func (s *Simulation) compose(states []BodyState) {
	done := make([]bool, len(states))
	var resolve func(idx int)
	resolve = func(idx int) {
		if done[idx] {
			return
		}
		done[idx] = true
		p := s.parents[idx]
		if p < 0 {
			return
		}
		resolve(p)
		parent := states[p]
		states[idx].Origin = parent.Position
		switch {
		case states[idx].Err != nil:
		case parent.Err != nil:
			states[idx].Position = Vector3{}
			states[idx].Err = fmt.Errorf("%s: parent %w", states[idx].Name, parent.Err)
		default:
			states[idx].Position = states[idx].Position.Add(parent.Position)
		}
	}
	for idx := range states {
		resolve(idx)
	}
}

func (s *Simulation) evaluate(obj CelestialObject, t float64) BodyState {
	state := BodyState{
		Name:   obj.Name,
		Parent: obj.Parent,
		Radius: obj.Radius,
		Curve:  s.geometry.Curve(obj.Elements, t),
	}
	pos, err := s.propagator.Position(obj.Elements, t)
	if err != nil {
		state.Err = fmt.Errorf("%s: %w", obj.Name, err)
		return state
	}
	state.Position = pos
	return state
}

// evaluateParallel fans the bodies out to a fixed number of workers. Results are written
// by index so the frame keeps the configuration order.
func (s *Simulation) evaluateParallel(ctx context.Context, t float64, out []BodyState) error {
	jobs := make(chan int, s.workers*2)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out[idx] = s.evaluate(s.bodies[idx], t)
			}
		}()
	}

	var err error
feed:
	for idx := range s.bodies {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return err
}
