// internal/job/metrics.go
package job

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "commit_scorer",
	Subsystem: "job",
	Name:      "collections_total",
	Help:      "Collection jobs by outcome.",
}, []string{"outcome"})
