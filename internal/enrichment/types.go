package enrichment

import (
	"github.com/DeadLyze/deadlyze-app/internal/matchcache"
	"github.com/DeadLyze/deadlyze-app/internal/stats"
)

// Status is the lifecycle state of one search.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// Update is one element of the status stream a search emits. Data is set
// for loaded updates, Message for failed ones.
type Update struct {
	Status  Status                  `json:"status"`
	Data    *matchcache.CachedMatch `json:"data,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// MatchCard is the expanded view of one past match: the player's final item
// build and end-of-match numbers, shown when a last-matches row is opened.
type MatchCard struct {
	MatchID       int64                `json:"match_id"`
	AccountID     int64                `json:"account_id"`
	Build         []stats.BuildItem    `json:"build,omitempty"`
	DetailedStats *stats.DetailedStats `json:"detailed_stats,omitempty"`
}
