// internal/collector/metrics.go
package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitsFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "commit_scorer",
		Subsystem: "collector",
		Name:      "commits_found_total",
		Help:      "Commits that matched the requested date range and author.",
	})

	commitsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "commit_scorer",
		Subsystem: "collector",
		Name:      "commits_saved_total",
		Help:      "Commits scored and persisted.",
	})

	commitsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commit_scorer",
		Subsystem: "collector",
		Name:      "commits_skipped_total",
		Help:      "Commits not persisted, by reason.",
	}, []string{"reason"})
)
