package knowledge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shypn",
		Subsystem: "knowledge",
		Name:      "updates_applied_total",
		Help:      "Knowledge base updates applied, by domain.",
	}, []string{"domain"})

	updatesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shypn",
		Subsystem: "knowledge",
		Name:      "updates_rejected_total",
		Help:      "Knowledge base updates rejected at the ingest boundary, by domain.",
	}, []string{"domain"})
)
