package http

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/budget"
	"github.com/DeadLyze/deadlyze-app/internal/config"
	"github.com/DeadLyze/deadlyze-app/internal/enrichment"
	"github.com/DeadLyze/deadlyze-app/internal/history"
	"github.com/DeadLyze/deadlyze-app/internal/identity"
	"github.com/DeadLyze/deadlyze-app/internal/livematch"
	"github.com/DeadLyze/deadlyze-app/internal/matchcache"
	"github.com/DeadLyze/deadlyze-app/internal/metrics"
	"github.com/DeadLyze/deadlyze-app/internal/party"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/DeadLyze/deadlyze-app/internal/storage"

	"github.com/DeadLyze/deadlyze-app/internal/assets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a new server with in-memory collaborators and
// mock clients.
func setupTestServer(t *testing.T) (*Server, *livematch.MockClient) {
	t.Helper()

	cfg := config.Config{
		AssetsAPI:     config.AssetsAPIConfig{RetryDelay: time.Millisecond},
		PlayerDataAPI: config.PlayerDataAPIConfig{MetadataDelay: 0},
		Budget:        config.BudgetConfig{MaxRequests: 10, RestoreInterval: 3 * time.Minute},
		Cache: config.CacheConfig{
			TTL:           time.Hour,
			RetryDelay:    time.Millisecond,
			RedrainDelay:  time.Millisecond,
			MaxRetryCount: 3,
		},
		Stats: config.StatsConfig{RecentWindow: 14 * 24 * time.Hour, LastN: 5},
	}

	livematchClient := livematch.NewMockClient()
	cache := matchcache.New(cfg.Cache.TTL)
	metadata := matchcache.NewMetadata(cfg.Cache)
	requestBudget := budget.NewMock()
	identityProvider := identity.New(storage.NewMock())
	historyService := history.New(storage.NewMock())

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)

	orchestrator := enrichment.New(&cfg, livematchClient, assets.NewMockClient(),
		playerdata.NewMockClient(), party.NewMockDetector(), cache, metadata,
		requestBudget, identityProvider, historyService, metricsSvc)

	server := NewServer(orchestrator, cache, metadata, requestBudget,
		historyService, identityProvider, metricsSvc, metricsHandler, cfg)
	return server, livematchClient
}

func TestHealthCheckHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestSearchHandlerRequiresMatchID(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchHandlerStreamsUpdates(t *testing.T) {
	server, livematchClient := setupTestServer(t)
	livematchClient.FetchMatchDataFunc = func(matchID string) (*livematch.MatchData, error) {
		return &livematch.MatchData{MatchID: 12345678}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/search?matchID=12345678", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/x-ndjson", rr.Header().Get("Content-Type"))

	var statuses []string
	scanner := bufio.NewScanner(rr.Body)
	for scanner.Scan() {
		var update enrichment.Update
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &update))
		statuses = append(statuses, string(update.Status))
	}
	require.NotEmpty(t, statuses)
	assert.Equal(t, "loading", statuses[0])
	assert.Equal(t, "loaded", statuses[len(statuses)-1])
}

func TestCachedMatchHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/match?matchID=12345678", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	server.Cache.Set(12345678, matchcache.CachedMatch{MatchData: &livematch.MatchData{MatchID: 12345678}})

	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/match?matchID=12345678", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var entry matchcache.CachedMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	assert.Equal(t, int64(12345678), entry.MatchData.MatchID)
}

func TestMatchDetailsHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/match-details?matchID=555&accountID=1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code, "no metadata anywhere yet")

	server.Metadata.Set(555, 1, &playerdata.DetailedMatchMetadata{
		MatchInfo: playerdata.MatchInfo{
			MatchID:   555,
			DurationS: 1800,
			Players: []playerdata.MetadataPlayer{{
				AccountID: 1,
				Stats:     []playerdata.StatSnapshot{{Kills: 7, Deaths: 2, NetWorth: 30000}},
			}},
		},
	})

	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/match-details?matchID=555&accountID=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var card enrichment.MatchCard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &card))
	require.NotNil(t, card.DetailedStats)
	assert.Equal(t, 7, card.DetailedStats.Kills)
	assert.Equal(t, 1800, card.DetailedStats.Duration)
}

func TestBudgetHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/budget", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Available   int `json:"available"`
		MaxRequests int `json:"max_requests"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Available)
	assert.Equal(t, 10, resp.MaxRequests)
}

func TestBudgetHandlerAnswersCanSearch(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/budget?matchID=12345678", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		CanSearch *bool `json:"can_search"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.CanSearch)
	assert.True(t, *resp.CanSearch)
}

func TestHistoryHandler(t *testing.T) {
	server, _ := setupTestServer(t)
	require.NoError(t, server.History.Add("12345678"))

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []history.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "12345678", entries[0].MatchID)

	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?clear=true", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, server.History.List())
}

func TestRetryQueueHandler(t *testing.T) {
	server, _ := setupTestServer(t)
	server.Metadata.AddToRetryQueue(100, 42)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/retry-queue", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Size int `json:"size"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Size)
}

func TestIdentityHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/identity", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code, "absence is a 404, not an error")

	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/identity?steamID64=76561197960265729&name=tester", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var id identity.Identity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &id))
	assert.Equal(t, int64(1), id.AccountID)

	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/identity", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestClearCacheHandler(t *testing.T) {
	server, _ := setupTestServer(t)
	server.Cache.Set(11111111, matchcache.CachedMatch{})
	server.Cache.Set(22222222, matchcache.CachedMatch{})

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/clear?matchID=11111111", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, server.Cache.Len())

	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/clear", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, server.Cache.Len())
}
