package services

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_resolved_total",
			Help: "Submissions resolved by validator consensus, by result",
		},
		[]string{"result"},
	)
	crownDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crown_decisions_total",
			Help: "Crown transfer protocol outcomes",
		},
		[]string{"outcome"},
	)
	crownTransferRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crown_transfer_retries_total",
			Help: "Crown decisions re-run after a lost lock or create race",
		},
	)
)

// InitMetrics registers the domain metrics. Call this from main.go.
func InitMetrics() {
	prometheus.MustRegister(submissionsResolved)
	prometheus.MustRegister(crownDecisions)
	prometheus.MustRegister(crownTransferRetries)
}
