package budget

import (
	"sync"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/storage"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const stateKey = "rate_limit_state"

// timestampWindow bounds how long consumption timestamps are kept around.
const timestampWindow = 30 * time.Minute

// tracker implements Budget on top of a durable key-value store.
type tracker struct {
	store           storage.Store
	maxRequests     int
	restoreInterval time.Duration
	now             func() time.Time

	mu        sync.Mutex
	state     state
	attempted map[string]bool
}

// New creates a budget tracker. Missing or unreadable persisted state is
// treated as a full, untouched budget.
func New(store storage.Store, maxRequests int, restoreInterval time.Duration) Budget {
	return newTracker(store, maxRequests, restoreInterval, time.Now)
}

func newTracker(store storage.Store, maxRequests int, restoreInterval time.Duration, now func() time.Time) *tracker {
	t := &tracker{
		store:           store,
		maxRequests:     maxRequests,
		restoreInterval: restoreInterval,
		now:             now,
		attempted:       make(map[string]bool),
	}
	t.load()
	return t
}

var _ Budget = (*tracker)(nil)

func (t *tracker) load() {
	t.state = state{
		AvailableRequests: t.maxRequests,
		LastRequestTime:   t.now().Unix(),
	}

	raw, ok, err := t.store.Get(stateKey)
	if err != nil {
		log.Error("Failed to load rate limit state, starting with full budget", "error", err)
		return
	}
	if !ok {
		return
	}

	var saved state
	if err := msgpack.Unmarshal(raw, &saved); err != nil {
		log.Error("Failed to decode rate limit state, starting with full budget", "error", err)
		return
	}
	if saved.AvailableRequests > t.maxRequests {
		saved.AvailableRequests = t.maxRequests
	}
	t.state = saved
	t.cleanupTimestamps()
}

func (t *tracker) persist() {
	raw, err := msgpack.Marshal(t.state)
	if err != nil {
		log.Error("Failed to encode rate limit state", "error", err)
		return
	}
	if err := t.store.Set(stateKey, raw); err != nil {
		log.Error("Failed to persist rate limit state", "error", err)
	}
}

// restore credits one unit per whole elapsed interval since the last
// request. lastRequestTime advances by the consumed intervals rather than
// to now, so partial intervals are not lost.
func (t *tracker) restore() {
	elapsed := t.now().Unix() - t.state.LastRequestTime
	if elapsed <= 0 {
		return
	}
	intervals := elapsed / int64(t.restoreInterval/time.Second)
	if intervals <= 0 {
		return
	}

	t.state.AvailableRequests += int(intervals)
	if t.state.AvailableRequests > t.maxRequests {
		t.state.AvailableRequests = t.maxRequests
	}
	t.state.LastRequestTime += intervals * int64(t.restoreInterval/time.Second)
	t.persist()
}

func (t *tracker) cleanupTimestamps() {
	cutoff := t.now().Add(-timestampWindow).Unix()
	kept := t.state.Timestamps[:0]
	for _, ts := range t.state.Timestamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	t.state.Timestamps = kept
}

// Available recomputes restoration lazily and returns the remaining budget.
func (t *tracker) Available() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restore()
	t.cleanupTimestamps()
	return t.state.AvailableRequests
}

// Consume spends one unit for the given key. A key already paid for in this
// session is always allowed again at no cost.
func (t *tracker) Consume(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.attempted[key] {
		return true
	}

	t.restore()
	if t.state.AvailableRequests <= 0 {
		return false
	}

	now := t.now()
	t.state.AvailableRequests--
	t.state.LastRequestTime = now.Unix()
	t.state.Timestamps = append(t.state.Timestamps, now.Unix())
	t.attempted[key] = true
	t.persist()
	return true
}

// CanConsume reports whether Consume would succeed, without spending anything.
func (t *tracker) CanConsume(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.attempted[key] {
		return true
	}
	t.restore()
	return t.state.AvailableRequests > 0
}

// RemainingTime returns how long until the next unit is restored, zero when
// the budget is already full.
func (t *tracker) RemainingTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restore()
	if t.state.AvailableRequests >= t.maxRequests {
		return 0
	}
	return t.restoreInterval
}
