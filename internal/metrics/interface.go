package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSearchesStarted()
	IncSearchesLoaded()
	IncSearchesFailed()
	IncCacheHit()
	IncCacheMiss()
	ObserveEnrichmentDuration(duration float64)
	SetRetryQueueSize(size int)
	SetBudgetAvailable(available int)
	SetStartupTime(duration float64)
}
