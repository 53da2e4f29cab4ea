package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	SearchesStarted    prometheus.Counter
	SearchesLoaded     prometheus.Counter
	SearchesFailed     prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	EnrichmentDuration prometheus.Histogram
	RetryQueueSize     prometheus.Gauge
	BudgetAvailable    prometheus.Gauge
	StartupTimeSeconds prometheus.Gauge
}
