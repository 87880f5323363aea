// Package metrics exposes Prometheus metrics for the HTTP service and screening runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

var (
	documentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_screened_total",
			Help:      "Total number of screened documents",
		},
		[]string{"status"},
	)

	matchPercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_percentage",
			Help:      "Match percentage of scored documents",
			Buckets:   []float64{25, 50, 75, 100},
		},
	)

	batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Screening run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	analyzeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyze_requests_total",
			Help:      "Total number of single document analyze requests",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(documentsTotal, matchPercentage, batchDuration, analyzeTotal)
}

// ObserveBatch records the outcome of a screening run.
func ObserveBatch(b *screening.Batch) {
	if b == nil {
		return
	}

	batchDuration.Observe(b.Duration.Seconds())

	for _, r := range b.Results {
		if !r.Success() {
			documentsTotal.WithLabelValues(statusError).Inc()
			continue
		}
		documentsTotal.WithLabelValues(statusOK).Inc()
		matchPercentage.Observe(float64(r.Record.Percentage))
	}
}

// ObserveAnalyze records a single analyze request.
func ObserveAnalyze(err error) {
	status := statusOK
	if err != nil {
		status = statusError
	}
	analyzeTotal.WithLabelValues(status).Inc()
}
