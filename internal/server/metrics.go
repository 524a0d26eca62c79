package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cricmetrics",
		Name:      "queries_total",
		Help:      "Questions received on /ask.",
	})

	responsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cricmetrics",
		Name:      "responses_total",
		Help:      "Answers produced, labeled by grounding verdict.",
	}, []string{"verdict"})

	storeRebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cricmetrics",
		Name:      "store_rebuilds_total",
		Help:      "Times the metrics store was rebuilt from storage.",
	})

	storeAgeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cricmetrics",
		Name:      "store_age_seconds",
		Help:      "Age of the current store snapshot at last query.",
	})
)
