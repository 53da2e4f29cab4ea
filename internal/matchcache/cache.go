package matchcache

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// matchCache is the in-memory MatchCache implementation.
type matchCache struct {
	mu      sync.Mutex
	entries map[int64]CachedMatch
	ttl     time.Duration
	now     func() time.Time
}

// New creates a match cache with the given entry TTL.
func New(ttl time.Duration) MatchCache {
	return &matchCache{
		entries: make(map[int64]CachedMatch),
		ttl:     ttl,
		now:     time.Now,
	}
}

var _ MatchCache = (*matchCache)(nil)

func (c *matchCache) Get(matchID int64) (*CachedMatch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[matchID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl {
		delete(c.entries, matchID)
		log.Debug("Evicted expired match cache entry", "matchID", matchID)
		return nil, false
	}
	return &entry, true
}

// Set stores the entry under a fresh timestamp regardless of what the caller
// put in the struct, so a rewrite always restarts the TTL.
func (c *matchCache) Set(matchID int64, entry CachedMatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry.Timestamp = c.now()
	c.entries[matchID] = entry
}

func (c *matchCache) ClearMatch(matchID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, matchID)
}

func (c *matchCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]CachedMatch)
}

func (c *matchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
