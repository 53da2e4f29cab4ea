package playerdata

import "context"

// Client defines the interface for the player-stats backend.
// This allows for mock implementations to be used in tests.
type Client interface {
	FetchMMR(ctx context.Context, accountIDs []int64) ([]PlayerMMR, error)
	FetchMMRMap(ctx context.Context, accountIDs []int64) (map[int64]PlayerMMR, error)
	FetchMatchHistory(ctx context.Context, accountID int64) ([]MatchHistoryItem, error)
	FetchMateStats(ctx context.Context, accountID int64, minUnixTimestamp int64) ([]MateStats, error)
	FetchEnemyStats(ctx context.Context, accountID int64) ([]EnemyStats, error)
	FetchMatchMetadata(ctx context.Context, matchID int64) (*DetailedMatchMetadata, error)
}
