package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SearchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadlyze_searches_started_total",
			Help: "The total number of match searches started.",
		}),
		SearchesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadlyze_searches_loaded_total",
			Help: "The total number of match searches that reached the loaded state.",
		}),
		SearchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadlyze_searches_failed_total",
			Help: "The total number of match searches that failed.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadlyze_match_cache_hits_total",
			Help: "The total number of searches answered from the match cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadlyze_match_cache_misses_total",
			Help: "The total number of searches that missed the match cache.",
		}),
		EnrichmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "deadlyze_enrichment_duration_seconds",
			Help:    "The duration of full match enrichment runs.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		RetryQueueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deadlyze_metadata_retry_queue_size",
			Help: "The current size of the metadata retry queue.",
		}),
		BudgetAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deadlyze_request_budget_available",
			Help: "The number of spectator lookups currently available.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deadlyze_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SearchesStarted,
		s.SearchesLoaded,
		s.SearchesFailed,
		s.CacheHits,
		s.CacheMisses,
		s.EnrichmentDuration,
		s.RetryQueueSize,
		s.BudgetAvailable,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSearchesStarted() {
	s.SearchesStarted.Inc()
}

func (s *Service) IncSearchesLoaded() {
	s.SearchesLoaded.Inc()
}

func (s *Service) IncSearchesFailed() {
	s.SearchesFailed.Inc()
}

func (s *Service) IncCacheHit() {
	s.CacheHits.Inc()
}

func (s *Service) IncCacheMiss() {
	s.CacheMisses.Inc()
}

func (s *Service) ObserveEnrichmentDuration(duration float64) {
	s.EnrichmentDuration.Observe(duration)
}

func (s *Service) SetRetryQueueSize(size int) {
	s.RetryQueueSize.Set(float64(size))
}

func (s *Service) SetBudgetAvailable(available int) {
	s.BudgetAvailable.Set(float64(available))
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
