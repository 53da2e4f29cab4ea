package http

import (
	"net/http"

	"github.com/DeadLyze/deadlyze-app/internal/budget"
	"github.com/DeadLyze/deadlyze-app/internal/config"
	"github.com/DeadLyze/deadlyze-app/internal/enrichment"
	"github.com/DeadLyze/deadlyze-app/internal/history"
	"github.com/DeadLyze/deadlyze-app/internal/identity"
	"github.com/DeadLyze/deadlyze-app/internal/matchcache"
	"github.com/DeadLyze/deadlyze-app/internal/metrics"
)

func NewServer(
	orchestrator *enrichment.Orchestrator,
	cache matchcache.MatchCache,
	metadata matchcache.MetadataCache,
	requestBudget budget.Budget,
	historyService history.Service,
	identityProvider identity.Provider,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
) *Server {
	server := &Server{
		Orchestrator:   orchestrator,
		Cache:          cache,
		Metadata:       metadata,
		Budget:         requestBudget,
		History:        historyService,
		Identity:       identityProvider,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/search", Chain(s.SearchHandler(), paramsMiddleware))
	s.Router.Handle("/match", Chain(s.CachedMatchHandler(), paramsMiddleware))
	s.Router.Handle("/match-details", Chain(s.MatchDetailsHandler(), paramsMiddleware))
	s.Router.Handle("/budget", Chain(s.BudgetHandler(), paramsMiddleware))
	s.Router.Handle("/history", Chain(s.HistoryHandler(), paramsMiddleware))
	s.Router.Handle("/retry-queue", Chain(s.RetryQueueHandler(), paramsMiddleware))
	s.Router.Handle("/identity", Chain(s.IdentityHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearCacheHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
