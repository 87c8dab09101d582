// internal/llm/metrics.go
package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "commit_scorer",
	Subsystem: "llm",
	Name:      "evaluations_total",
	Help:      "Language model evaluations by outcome (ok, unparsable, error, disabled).",
}, []string{"outcome"})
