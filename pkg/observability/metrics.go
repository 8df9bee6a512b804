package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/burette/pkg/domain"
)

// Metrics bundles the Prometheus collectors for titration runs. Wire it
// into an engine or bench through Hooks(); every accepted lifecycle event
// updates the matching collector.
type Metrics struct {
	runsStarted   prometheus.Counter
	runsCompleted prometheus.Counter
	ticks         *prometheus.CounterVec
	equivalences  prometheus.Counter
	phaseChanges  *prometheus.CounterVec

	ph     *prometheus.GaugeVec
	volume *prometheus.GaugeVec

	tickDelta prometheus.Histogram
}

// NewMetrics creates and registers the collectors on the given registerer
// (use prometheus.DefaultRegisterer for the process-global registry).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "burette_runs_started_total",
			Help: "Total number of titration runs started",
		}),
		runsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "burette_runs_completed_total",
			Help: "Total number of titration runs that reached the volume cap",
		}),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "burette_ticks_total",
			Help: "Total number of accepted ticks",
		}, []string{"run_id"}),
		equivalences: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "burette_equivalence_reached_total",
			Help: "Total number of runs that crossed their equivalence volume",
		}),
		phaseChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "burette_phase_changes_total",
			Help: "Total number of phase transitions by target phase",
		}, []string{"phase"}),
		ph: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "burette_ph",
			Help: "Latest recorded pH per run",
		}, []string{"run_id"}),
		volume: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "burette_volume_ml",
			Help: "Cumulative titrant volume delivered per run, in mL",
		}, []string{"run_id"}),
		tickDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "burette_tick_delta",
			Help:    "Distribution of simulated time deltas per tick",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	reg.MustRegister(
		m.runsStarted, m.runsCompleted, m.ticks, m.equivalences,
		m.phaseChanges, m.ph, m.volume, m.tickDelta,
	)
	return m
}

// Hooks adapts the collectors to the engine's lifecycle callbacks.
// Compose with other observers via domain.MergeHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(ctx context.Context, e *domain.RunEvent) {
			m.runsStarted.Inc()
		},
		OnTick: func(ctx context.Context, e *domain.TickEvent) {
			m.ticks.WithLabelValues(e.RunID).Inc()
			m.tickDelta.Observe(e.Delta)
			m.ph.WithLabelValues(e.RunID).Set(e.Sample.PH)
			m.volume.WithLabelValues(e.RunID).Set(e.Sample.Volume)
		},
		OnPhaseChange: func(ctx context.Context, e *domain.RunEvent) {
			m.phaseChanges.WithLabelValues(string(e.Phase)).Inc()
		},
		OnEquivalence: func(ctx context.Context, e *domain.EquivalenceEvent) {
			m.equivalences.Inc()
		},
		OnComplete: func(ctx context.Context, e *domain.RunEvent) {
			m.runsCompleted.Inc()
		},
	}
}

// Forget drops the per-run gauges for a removed run so the exposition
// does not grow without bound.
func (m *Metrics) Forget(runID string) {
	m.ph.DeleteLabelValues(runID)
	m.volume.DeleteLabelValues(runID)
	m.ticks.DeleteLabelValues(runID)
}
