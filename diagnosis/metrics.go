package diagnosis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	issuesEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shypn",
		Subsystem: "diagnosis",
		Name:      "issues_total",
		Help:      "Issues emitted by investigations, by severity and category.",
	}, []string{"severity", "category"})

	suggestionsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shypn",
		Subsystem: "diagnosis",
		Name:      "suggestions_total",
		Help:      "Repair suggestions emitted by investigations.",
	})
)
