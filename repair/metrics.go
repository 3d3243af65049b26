package repair

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	changesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shypn",
		Subsystem: "repair",
		Name:      "changes_applied_total",
		Help:      "Suggestions committed to a subnet, by action.",
	}, []string{"action"})

	changesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shypn",
		Subsystem: "repair",
		Name:      "changes_failed_total",
		Help:      "Suggestion applications that failed, by action.",
	}, []string{"action"})
)
