package matchcache

import (
	"context"

	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
)

// MatchCache stores enriched match views with a TTL. Entries expire lazily:
// an expired entry is evicted on the read that finds it stale.
type MatchCache interface {
	Get(matchID int64) (*CachedMatch, bool)
	Set(matchID int64, entry CachedMatch)
	ClearMatch(matchID int64)
	Clear()
	Len() int
}

// FetchFunc retrieves detailed metadata for one (match, player) pair. It is
// supplied by the caller so the queue stays transport-agnostic.
type FetchFunc func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error)

// MetadataCache stores per-player match metadata and owns the retry queue
// for fetches that were rejected by upstream rate limiting.
type MetadataCache interface {
	Get(matchID, accountID int64) (*playerdata.DetailedMatchMetadata, bool)
	Set(matchID, accountID int64, metadata *playerdata.DetailedMatchMetadata)
	Clear()

	// AddToRetryQueue enqueues a pair for a later fetch attempt. Duplicate
	// pairs are ignored while one is already queued.
	AddToRetryQueue(matchID, accountID int64)

	// ProcessRetryQueue drains the queue sequentially using fetch. It is a
	// no-op while another drain is in flight, and reschedules itself until
	// the queue is empty or ctx is cancelled.
	ProcessRetryQueue(ctx context.Context, fetch FetchFunc)

	QueueLen() int
}
