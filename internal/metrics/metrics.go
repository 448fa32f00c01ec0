// Package metrics exposes Prometheus metrics for analysis runs and adapters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sie-tools/eeat-mentions/internal/models"
)

var (
	// eeatScore holds the latest score per brand and dimension
	eeatScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eeat_score",
			Help: "Latest E-E-A-T score per brand and dimension",
		},
		[]string{"brand", "dimension"},
	)

	// analysisRunsTotal tracks analysis runs by outcome
	analysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eeat_analysis_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"}, // status: success|failure
	)

	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eeat_analysis_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
	)

	mentionsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eeat_mentions_collected_total",
			Help: "Total number of mention records collected",
		},
		[]string{"category"},
	)

	// adapterFailuresTotal tracks degraded adapter calls
	adapterFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eeat_adapter_failures_total",
			Help: "Total number of failed adapter calls",
		},
		[]string{"adapter"}, // adapter: search|classifier|presence|site
	)

	circuitBreakerOpenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eeat_circuit_breaker_open_total",
			Help: "Total number of circuit breaker open events",
		},
		[]string{"circuit"},
	)
)

// RecordScores publishes the score bundle of a finished run
func RecordScores(brand string, scores models.ScoreBundle) {
	eeatScore.WithLabelValues(brand, "experience").Set(float64(scores.Experience))
	eeatScore.WithLabelValues(brand, "expertise").Set(float64(scores.Expertise))
	eeatScore.WithLabelValues(brand, "authoritativeness").Set(float64(scores.Authoritativeness))
	eeatScore.WithLabelValues(brand, "trustworthiness").Set(float64(scores.Trustworthiness))
	eeatScore.WithLabelValues(brand, "overall").Set(float64(scores.Overall))
}

// RecordRun records the outcome and duration of an analysis run
func RecordRun(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	analysisRunsTotal.WithLabelValues(status).Inc()
	analysisDuration.Observe(duration.Seconds())
}

// RecordMentions adds the number of records collected for a category
func RecordMentions(category models.MediaCategory, n int) {
	mentionsCollected.WithLabelValues(string(category)).Add(float64(n))
}

// RecordAdapterFailure records a failed call to an external adapter
func RecordAdapterFailure(adapter string) {
	adapterFailuresTotal.WithLabelValues(adapter).Inc()
}

// RecordCircuitOpen records a circuit breaker tripping open
func RecordCircuitOpen(circuit string) {
	circuitBreakerOpenTotal.WithLabelValues(circuit).Inc()
}
