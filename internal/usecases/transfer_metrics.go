package usecases

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// transferOpsTotal counts engine operations by type and outcome.
	transferOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spay",
			Name:      "transfer_operations_total",
			Help:      "Total transfer engine operations by type and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// transferOpDuration observes operation latency by type.
	transferOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "spay",
			Name:      "transfer_operation_duration_seconds",
			Help:      "Transfer engine operation duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"operation"},
	)

	// escrowOpenGauge tracks the number of escrows currently pending.
	escrowOpenGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "spay",
			Name:      "escrow_open_accounts",
			Help:      "Number of escrow accounts currently pending.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		transferOpsTotal,
		transferOpDuration,
		escrowOpenGauge,
	)
}

// observeOp records one engine operation.
func observeOp(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	transferOpsTotal.WithLabelValues(operation, outcome).Inc()
	transferOpDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
