package matchcache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/config"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/charmbracelet/log"
)

// metadataCache is the in-memory MetadataCache implementation. The retry
// queue lives here because its only job is refilling this cache.
type metadataCache struct {
	mu       sync.Mutex
	entries  map[metadataKey]metadataEntry
	queue    []retryEntry
	queued   map[metadataKey]bool
	draining bool

	ttl           time.Duration
	retryDelay    time.Duration
	redrainDelay  time.Duration
	maxRetryCount int
	now           func() time.Time
}

type metadataEntry struct {
	metadata  *playerdata.DetailedMatchMetadata
	timestamp time.Time
}

// NewMetadata creates a metadata cache with retry behavior from cfg.
func NewMetadata(cfg config.CacheConfig) MetadataCache {
	return &metadataCache{
		entries:       make(map[metadataKey]metadataEntry),
		queued:        make(map[metadataKey]bool),
		ttl:           cfg.TTL,
		retryDelay:    cfg.RetryDelay,
		redrainDelay:  cfg.RedrainDelay,
		maxRetryCount: cfg.MaxRetryCount,
		now:           time.Now,
	}
}

var _ MetadataCache = (*metadataCache)(nil)

func (c *metadataCache) Get(matchID, accountID int64) (*playerdata.DetailedMatchMetadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := metadataKey{matchID: matchID, accountID: accountID}
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.metadata, true
}

func (c *metadataCache) Set(matchID, accountID int64, metadata *playerdata.DetailedMatchMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := metadataKey{matchID: matchID, accountID: accountID}
	c.entries[key] = metadataEntry{metadata: metadata, timestamp: c.now()}
}

func (c *metadataCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[metadataKey]metadataEntry)
}

func (c *metadataCache) AddToRetryQueue(matchID, accountID int64) {
	c.enqueue(retryEntry{matchID: matchID, accountID: accountID})
}

func (c *metadataCache) enqueue(entry retryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := metadataKey{matchID: entry.matchID, accountID: entry.accountID}
	if c.queued[key] {
		return
	}
	c.queued[key] = true
	c.queue = append(c.queue, entry)
	log.Debug("Queued metadata retry", "matchID", entry.matchID, "accountID", entry.accountID, "attempt", entry.retryCount)
}

func (c *metadataCache) QueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// ProcessRetryQueue drains a snapshot of the queue. Entries enqueued during
// the drain wait for the rescheduled pass.
func (c *metadataCache) ProcessRetryQueue(ctx context.Context, fetch FetchFunc) {
	c.mu.Lock()
	if c.draining || len(c.queue) == 0 {
		c.mu.Unlock()
		return
	}
	c.draining = true
	batch := c.queue
	c.queue = nil
	for _, entry := range batch {
		delete(c.queued, metadataKey{matchID: entry.matchID, accountID: entry.accountID})
	}
	c.mu.Unlock()

	log.Info("Draining metadata retry queue", "size", len(batch))
	for i, entry := range batch {
		if i > 0 {
			select {
			case <-ctx.Done():
				// Untouched entries keep their attempt counts and wait
				// for the next drain.
				for _, rest := range batch[i:] {
					c.enqueue(rest)
				}
				c.finishDrain(ctx, fetch, false)
				return
			case <-time.After(c.retryDelay):
			}
		}
		c.retryOne(ctx, fetch, entry)
	}

	c.finishDrain(ctx, fetch, true)
}

// retryOne attempts a single fetch. A nil result or any error counts as a
// failed attempt and re-enqueues the entry until its attempts run out.
func (c *metadataCache) retryOne(ctx context.Context, fetch FetchFunc, entry retryEntry) {
	metadata, err := fetch(ctx, entry.matchID, entry.accountID)
	if err == nil && metadata != nil {
		c.Set(entry.matchID, entry.accountID, metadata)
		return
	}
	if err != nil && !errors.Is(err, playerdata.ErrRateLimited) {
		log.Error("Metadata retry failed", "matchID", entry.matchID, "accountID", entry.accountID, "error", err)
	}
	if entry.retryCount+1 < c.maxRetryCount {
		c.enqueue(retryEntry{matchID: entry.matchID, accountID: entry.accountID, retryCount: entry.retryCount + 1})
	} else {
		log.Warn("Dropping metadata retry after max attempts", "matchID", entry.matchID, "accountID", entry.accountID)
	}
}

// finishDrain releases the guard and, when work remains, schedules another
// pass after the redrain delay.
func (c *metadataCache) finishDrain(ctx context.Context, fetch FetchFunc, reschedule bool) {
	c.mu.Lock()
	c.draining = false
	pending := len(c.queue)
	c.mu.Unlock()

	if !reschedule || pending == 0 {
		return
	}
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(c.redrainDelay):
			c.ProcessRetryQueue(ctx, fetch)
		}
	}()
}
