package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	discoveryCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discovery_candidates",
			Help:      "Number of candidates scanned per discovery request",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"kind"},
	)

	viewIncrements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_increments_total",
			Help:      "View counter increments by outcome",
		},
		[]string{"kind", "outcome"},
	)

	reviewNotifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_notifications_total",
			Help:      "Post-review notifications by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(discoveryCandidates, viewIncrements, reviewNotifications)
}

// ObserveCandidates records the size of the candidate set scanned for one request.
func ObserveCandidates(kind string, n int) {
	discoveryCandidates.WithLabelValues(kind).Observe(float64(n))
}

// ViewIncremented records a best-effort view counter update.
func ViewIncremented(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	viewIncrements.WithLabelValues(kind, outcome).Inc()
}

// ReviewNotified records the outcome of a review notification.
func ReviewNotified(err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	reviewNotifications.WithLabelValues(outcome).Inc()
}
