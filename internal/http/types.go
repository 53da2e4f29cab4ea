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

type Server struct {
	Orchestrator   *enrichment.Orchestrator
	Cache          matchcache.MatchCache
	Metadata       matchcache.MetadataCache
	Budget         budget.Budget
	History        history.Service
	Identity       identity.Provider
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
