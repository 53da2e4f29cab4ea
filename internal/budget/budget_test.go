package budget

import (
	"testing"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(t *testing.T, store storage.Store) (*tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	return newTracker(store, 10, 3*time.Minute, clock.now), clock
}

func TestStartsWithFullBudget(t *testing.T) {
	tr, _ := newTestTracker(t, storage.NewMock())
	assert.Equal(t, 10, tr.Available())
}

func TestConsumeDecrementsAndRestores(t *testing.T) {
	tr, clock := newTestTracker(t, storage.NewMock())

	assert.True(t, tr.Consume("m1"))
	assert.True(t, tr.Consume("m2"))
	assert.Equal(t, 8, tr.Available())

	// One full interval restores exactly one unit.
	clock.advance(3 * time.Minute)
	assert.Equal(t, 9, tr.Available())

	// A partial interval restores nothing.
	clock.advance(2 * time.Minute)
	assert.Equal(t, 9, tr.Available())

	// The partial interval is not lost: one more minute completes it.
	clock.advance(1 * time.Minute)
	assert.Equal(t, 10, tr.Available())
}

func TestRestoreNeverExceedsMax(t *testing.T) {
	tr, clock := newTestTracker(t, storage.NewMock())

	assert.True(t, tr.Consume("m1"))
	clock.advance(24 * time.Hour)
	assert.Equal(t, 10, tr.Available())
}

func TestIdempotentConsumption(t *testing.T) {
	tr, _ := newTestTracker(t, storage.NewMock())

	assert.True(t, tr.Consume("m1"))
	assert.True(t, tr.Consume("m1"))
	assert.True(t, tr.Consume("m1"))
	assert.Equal(t, 9, tr.Available())
}

func TestConsumeFailsWhenExhausted(t *testing.T) {
	store := storage.NewMock()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	tr := newTracker(store, 2, 3*time.Minute, clock.now)

	assert.True(t, tr.Consume("m1"))
	assert.True(t, tr.Consume("m2"))
	assert.False(t, tr.Consume("m3"))
	assert.Equal(t, 0, tr.Available())

	// A failed consume does not mark the key as paid.
	assert.False(t, tr.CanConsume("m3"))

	// Already-paid keys stay free even at zero budget.
	assert.True(t, tr.Consume("m1"))
}

func TestStatePersistsAcrossRestarts(t *testing.T) {
	store := storage.NewMock()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}

	tr := newTracker(store, 10, 3*time.Minute, clock.now)
	require.True(t, tr.Consume("m1"))
	require.True(t, tr.Consume("m2"))

	// New tracker over the same store sees the consumed budget but not the
	// session-scoped paid set.
	tr2 := newTracker(store, 10, 3*time.Minute, clock.now)
	assert.Equal(t, 8, tr2.Available())
	assert.True(t, tr2.Consume("m1"))
	assert.Equal(t, 7, tr2.Available())
}

func TestStorageFailureMeansFullBudget(t *testing.T) {
	store := storage.NewMock()
	store.GetErr = assert.AnError

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	tr := newTracker(store, 10, 3*time.Minute, clock.now)
	assert.Equal(t, 10, tr.Available())
}

func TestRemainingTime(t *testing.T) {
	tr, _ := newTestTracker(t, storage.NewMock())

	assert.Equal(t, time.Duration(0), tr.RemainingTime())
	tr.Consume("m1")
	assert.Equal(t, 3*time.Minute, tr.RemainingTime())
}
