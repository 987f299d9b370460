package categorize

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Categorization outcomes, used as the "outcome" metric label.
const (
	OutcomeMatched       = "matched"
	OutcomeUncategorized = "uncategorized"
	OutcomeNoBuckets     = "no_buckets"
	OutcomeBackendError  = "backend_error"
	OutcomeParseError    = "parse_error"
	OutcomePanic         = "panic"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	Categorizations *prometheus.CounterVec
	BackendDuration prometheus.Histogram
}

// NewMetrics creates the engine collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Categorizations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailbuckets_categorizations_total",
				Help: "Total number of categorized emails by outcome",
			},
			[]string{"outcome"},
		),
		BackendDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mailbuckets_backend_request_duration_seconds",
				Help:    "Duration of generation backend calls in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
	}
}

func (m *Metrics) outcome(outcome string) {
	if m == nil {
		return
	}
	m.Categorizations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) backendCall(d time.Duration) {
	if m == nil {
		return
	}
	m.BackendDuration.Observe(d.Seconds())
}
