package matchcache

import (
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/livematch"
	"github.com/DeadLyze/deadlyze-app/internal/party"
	"github.com/DeadLyze/deadlyze-app/internal/stats"
)

// CachedMatch is the fully enriched view of one live match, written in a
// single step once enrichment finishes.
type CachedMatch struct {
	MatchData        *livematch.MatchData          `json:"match_data"`
	HeroIconURLs     map[int64]string              `json:"hero_icon_urls"`
	RankImageURLs    map[int64]string              `json:"rank_image_urls"`
	MatchStatsMap    map[int64]stats.MatchStats    `json:"match_stats_map"`
	RelationStatsMap map[int64]stats.RelationStats `json:"relation_stats_map"`
	PartyGroups      []party.Group                 `json:"party_groups"`
	PlayerTagsMap    map[int64][]stats.Tag         `json:"player_tags_map"`
	Timestamp        time.Time                     `json:"timestamp"`
}

// metadataKey identifies one player's metadata within one match.
type metadataKey struct {
	matchID   int64
	accountID int64
}

// retryEntry is one pending metadata re-fetch.
type retryEntry struct {
	matchID    int64
	accountID  int64
	retryCount int
}
