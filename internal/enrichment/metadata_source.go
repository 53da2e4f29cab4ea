package enrichment

import (
	"context"
	"errors"

	"github.com/DeadLyze/deadlyze-app/internal/matchcache"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/DeadLyze/deadlyze-app/internal/stats"
)

// cachedMetadataSource serves metadata cache-first and routes rate-limited
// fetches into the retry queue instead of failing the caller. onRateLimited
// runs after each enqueue so the queue starts draining even when no search
// is around to trigger it.
type cachedMetadataSource struct {
	cache         matchcache.MetadataCache
	client        playerdata.Client
	onRateLimited func()
}

var _ stats.MetadataSource = (*cachedMetadataSource)(nil)

func (s *cachedMetadataSource) GetMetadata(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
	if metadata, ok := s.cache.Get(matchID, accountID); ok {
		return metadata, nil
	}

	metadata, err := s.client.FetchMatchMetadata(ctx, matchID)
	if err != nil {
		if errors.Is(err, playerdata.ErrRateLimited) {
			s.cache.AddToRetryQueue(matchID, accountID)
			if s.onRateLimited != nil {
				s.onRateLimited()
			}
			return nil, nil
		}
		return nil, err
	}
	if metadata != nil {
		s.cache.Set(matchID, accountID, metadata)
	}
	return metadata, nil
}
