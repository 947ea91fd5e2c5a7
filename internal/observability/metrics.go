package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// alert evaluator.
type Metrics struct {
	CyclesTotal      prometheus.Counter
	CycleDuration    prometheus.Histogram
	EvaluatorRunning prometheus.Gauge

	GeofencesEvaluated prometheus.Counter
	VehiclesEvaluated  prometheus.Counter

	AlertsEmitted    *prometheus.CounterVec // labels: type, severity
	AlertsSuppressed *prometheus.CounterVec // labels: reason={cooldown,duplicate}
	DispatchErrors   *prometheus.CounterVec // labels: sink
	SourceErrors     *prometheus.CounterVec // labels: source={config,geofences,vehicles,forecast}
}

// NewMetrics creates and registers all evaluator metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clima_tracker",
			Name:      "evaluation_cycles_total",
			Help:      "Completed evaluation cycles.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clima_tracker",
			Name:      "evaluation_cycle_duration_seconds",
			Help:      "Duration of a complete evaluation cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EvaluatorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clima_tracker",
			Name:      "evaluator_running",
			Help:      "1 when the scheduled evaluator is active, 0 when shut down.",
		}),
		GeofencesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clima_tracker",
			Name:      "geofences_evaluated_total",
			Help:      "Per-geofence risk checks performed.",
		}),
		VehiclesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clima_tracker",
			Name:      "vehicles_evaluated_total",
			Help:      "Per-vehicle proximity checks performed.",
		}),
		AlertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clima_tracker",
			Name:      "alerts_emitted_total",
			Help:      "Alerts created and dispatched, by type and severity.",
		}, []string{"type", "severity"}),
		AlertsSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clima_tracker",
			Name:      "alerts_suppressed_total",
			Help:      "Alerts withheld by the cooldown ledger or the duplicate window.",
		}, []string{"reason"}),
		DispatchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clima_tracker",
			Name:      "dispatch_errors_total",
			Help:      "Failed alert deliveries by sink.",
		}, []string{"sink"}),
		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clima_tracker",
			Name:      "source_errors_total",
			Help:      "External data fetch failures by source.",
		}, []string{"source"}),
	}

	prometheus.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.EvaluatorRunning,
		m.GeofencesEvaluated,
		m.VehiclesEvaluated,
		m.AlertsEmitted,
		m.AlertsSuppressed,
		m.DispatchErrors,
		m.SourceErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CyclesTotal:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "clima_tracker", Name: "evaluation_cycles_total"}),
		CycleDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "clima_tracker", Name: "evaluation_cycle_duration_seconds"}),
		EvaluatorRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "clima_tracker", Name: "evaluator_running"}),
		GeofencesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "clima_tracker", Name: "geofences_evaluated_total"}),
		VehiclesEvaluated:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "clima_tracker", Name: "vehicles_evaluated_total"}),
		AlertsEmitted:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "clima_tracker", Name: "alerts_emitted_total"}, []string{"type", "severity"}),
		AlertsSuppressed:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "clima_tracker", Name: "alerts_suppressed_total"}, []string{"reason"}),
		DispatchErrors:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "clima_tracker", Name: "dispatch_errors_total"}, []string{"sink"}),
		SourceErrors:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "clima_tracker", Name: "source_errors_total"}, []string{"source"}),
	}
}
