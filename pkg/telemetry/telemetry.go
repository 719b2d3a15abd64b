// Package telemetry exposes Prometheus metrics for ensemble fits: per-unit
// outcomes and durations of each phase, completed fits, and the current
// lifecycle state.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blend"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector groups the ensemble metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	units    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	fits     *prometheus.CounterVec
	state    prometheus.Gauge
}

// NewCollector creates the metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer for the process-wide registry or a fresh
// prometheus.NewRegistry() to keep ensembles apart.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		units: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "units_total",
				Help:      "Fit and predict units executed, by phase and outcome",
			},
			[]string{"phase", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Wall time of each ensemble phase",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"phase"},
		),
		fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fits_total",
				Help:      "Completed ensemble fits by outcome",
			},
			[]string{"outcome"},
		),
		state: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ensemble_state",
				Help:      "Lifecycle state: 0 uninitialized, 1 fitting meta, 2 fitting production, 3 ready, 4 predicting",
			},
		),
	}

	for _, m := range []prometheus.Collector{c.units, c.duration, c.fits, c.state} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveUnit counts one unit of work in phase.
func (c *Collector) ObserveUnit(phase string, err error) {
	if c == nil {
		return
	}
	c.units.WithLabelValues(phase, outcome(err)).Inc()
}

// ObservePhase records how long a phase took.
func (c *Collector) ObservePhase(phase string, d time.Duration) {
	if c == nil {
		return
	}
	c.duration.WithLabelValues(phase).Observe(d.Seconds())
}

// FitDone counts a finished fit.
func (c *Collector) FitDone(err error) {
	if c == nil {
		return
	}
	c.fits.WithLabelValues(outcome(err)).Inc()
}

// SetState publishes the numeric lifecycle state.
func (c *Collector) SetState(state int) {
	if c == nil {
		return
	}
	c.state.Set(float64(state))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
