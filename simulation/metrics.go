package simulation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shypn",
		Subsystem: "simulation",
		Name:      "steps_total",
		Help:      "Discrete simulation steps executed.",
	})

	firingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shypn",
		Subsystem: "simulation",
		Name:      "firings_total",
		Help:      "Transition firings, by transition identifier.",
	}, []string{"transition"})
)
