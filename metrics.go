package orrery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus collectors of a Simulation. A nil *Metrics records nothing.
type Metrics struct {
	steps        prometheus.Counter
	propagations *prometheus.CounterVec
	stepDuration prometheus.Histogram
	epoch        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_steps_total",
			Help: "Total number of simulation steps evaluated.",
		}),
		propagations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_propagations_total",
				Help: "Total number of body propagations, by result.",
			},
			[]string{"result"},
		),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orrery_step_duration_seconds",
			Help:    "Time spent evaluating all bodies of one step.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		epoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_epoch_centuries",
			Help: "Simulated epoch of the last step, in Julian centuries since J2000.",
		}),
	}
	reg.MustRegister(m.steps, m.propagations, m.stepDuration, m.epoch)
	return m
}

func (m *Metrics) record(f Frame, took time.Duration) {
	if m == nil {
		return
	}
	var failed int
	for _, b := range f.Bodies {
		if b.Err != nil {
			failed++
		}
	}
	m.steps.Inc()
	m.propagations.WithLabelValues("ok").Add(float64(len(f.Bodies) - failed))
	m.propagations.WithLabelValues("failed").Add(float64(failed))
	m.stepDuration.Observe(took.Seconds())
	m.epoch.Set(f.Epoch)
}
