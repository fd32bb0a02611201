package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels completed analyses.
	OutcomeSuccess = "success"
	// OutcomeError labels failed analyses (ingest or extraction issues).
	OutcomeError = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ekg_engine",
			Name:      "analyses_total",
			Help:      "Total number of EKG analyses handled, partitioned by outcome and rhythm.",
		},
		[]string{"outcome", "rhythm"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ekg_engine",
			Name:      "analysis_seconds",
			Help:      "Analysis pipeline latency in seconds.",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	stateQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ekg_engine",
			Name:      "state_queries_total",
			Help:      "Total number of electrophysiology state queries served.",
		},
	)
)

// Register attaches ekg-engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		stateQueriesTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records an analysis duration with its outcome and rhythm labels.
func ObserveAnalysis(duration time.Duration, outcome, rhythm string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(label, rhythm).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}

// ObserveStateQuery counts one electrophysiology state query.
func ObserveStateQuery() {
	stateQueriesTotal.Inc()
}
