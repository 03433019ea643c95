package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	claimsCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "claim_service",
		Subsystem: "claims",
		Name:      "created_total",
		Help:      "Total number of claim intents recorded.",
	})
	lastClaimGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "claim_service",
		Subsystem: "claims",
		Name:      "last_recorded_timestamp_seconds",
		Help:      "Unix timestamp of the most recent claim persisted to the store.",
	})
	bestEffortFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claim_service",
		Subsystem: "claims",
		Name:      "best_effort_failures_total",
		Help:      "Failures of post-claim follow-up writes that were swallowed.",
	}, []string{"step"})
)

func init() {
	prometheus.MustRegister(claimsCreatedCounter, lastClaimGauge, bestEffortFailures)
}

// RecordClaimCreated bumps the claim counter and watermark gauge.
func RecordClaimCreated(ts time.Time) {
	claimsCreatedCounter.Inc()
	if ts.IsZero() {
		return
	}
	lastClaimGauge.Set(float64(ts.Unix()))
}

// RecordBestEffortFailure counts a swallowed follow-up write failure.
func RecordBestEffortFailure(step string) {
	bestEffortFailures.WithLabelValues(step).Inc()
}
