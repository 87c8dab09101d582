// internal/sfera/metrics.go
package sfera

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "commit_scorer",
	Subsystem: "sfera",
	Name:      "requests_total",
	Help:      "Remote source-control API requests by endpoint and outcome.",
}, []string{"endpoint", "outcome"})
