package matchcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/config"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		TTL:           time.Hour,
		RetryDelay:    time.Millisecond,
		RedrainDelay:  5 * time.Millisecond,
		MaxRetryCount: 3,
	}
}

func TestMetadataCacheRoundTrip(t *testing.T) {
	c := NewMetadata(testCacheConfig())

	metadata := &playerdata.DetailedMatchMetadata{}
	c.Set(100, 42, metadata)

	got, ok := c.Get(100, 42)
	require.True(t, ok)
	assert.Same(t, metadata, got)

	_, ok = c.Get(100, 43)
	assert.False(t, ok, "entries are keyed per player, not per match")
}

func TestRetryQueueDeduplicates(t *testing.T) {
	c := NewMetadata(testCacheConfig())

	c.AddToRetryQueue(100, 42)
	c.AddToRetryQueue(100, 42)
	c.AddToRetryQueue(100, 43)

	assert.Equal(t, 2, c.QueueLen())
}

func TestProcessRetryQueueFillsCache(t *testing.T) {
	c := NewMetadata(testCacheConfig())
	c.AddToRetryQueue(100, 42)

	metadata := &playerdata.DetailedMatchMetadata{}
	c.ProcessRetryQueue(context.Background(), func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		return metadata, nil
	})

	got, ok := c.Get(100, 42)
	require.True(t, ok)
	assert.Same(t, metadata, got)
	assert.Equal(t, 0, c.QueueLen())
}

func TestRateLimitedEntriesAreBounded(t *testing.T) {
	c := NewMetadata(testCacheConfig())
	c.AddToRetryQueue(100, 42)

	var attempts atomic.Int32
	fetch := func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		attempts.Add(1)
		return nil, playerdata.ErrRateLimited
	}

	// The drain reschedules itself while re-enqueued entries remain; wait
	// for the give-up point.
	c.ProcessRetryQueue(context.Background(), fetch)
	assert.Eventually(t, func() bool {
		return c.QueueLen() == 0 && int(attempts.Load()) == 3
	}, time.Second, 2*time.Millisecond, "exactly max attempts before giving up")
}

func TestProcessRetryQueueIsReentrantSafe(t *testing.T) {
	c := NewMetadata(config.CacheConfig{
		TTL:           time.Hour,
		RetryDelay:    20 * time.Millisecond,
		RedrainDelay:  time.Hour,
		MaxRetryCount: 3,
	})
	c.AddToRetryQueue(100, 42)
	c.AddToRetryQueue(100, 43)

	var calls atomic.Int32
	started := make(chan struct{})
	fetch := func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		return &playerdata.DetailedMatchMetadata{}, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.ProcessRetryQueue(context.Background(), fetch)
	}()

	<-started
	// Second drain while the first is mid-flight must be a no-op.
	c.ProcessRetryQueue(context.Background(), fetch)
	wg.Wait()

	assert.Equal(t, int32(2), calls.Load())
}

func TestProcessRetryQueueHonorsCancellation(t *testing.T) {
	c := NewMetadata(config.CacheConfig{
		TTL:           time.Hour,
		RetryDelay:    time.Hour,
		RedrainDelay:  time.Hour,
		MaxRetryCount: 3,
	})
	c.AddToRetryQueue(100, 42)
	c.AddToRetryQueue(100, 43)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	fetch := func(fctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		calls.Add(1)
		cancel()
		return nil, playerdata.ErrRateLimited
	}

	done := make(chan struct{})
	go func() {
		c.ProcessRetryQueue(ctx, fetch)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drain did not stop after cancellation")
	}
	assert.Equal(t, int32(1), calls.Load(), "no further fetches after cancel")
	assert.Equal(t, 2, c.QueueLen(), "the failed entry and the untouched one both wait for the next drain")
}

func TestNilResultCountsAsFailedAttempt(t *testing.T) {
	c := NewMetadata(testCacheConfig())
	c.AddToRetryQueue(100, 42)

	var attempts atomic.Int32
	c.ProcessRetryQueue(context.Background(), func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		attempts.Add(1)
		return nil, nil
	})

	assert.Eventually(t, func() bool {
		return c.QueueLen() == 0 && int(attempts.Load()) == 3
	}, time.Second, 2*time.Millisecond)
	_, ok := c.Get(100, 42)
	assert.False(t, ok, "nothing is cached on exhausted retries")
}
