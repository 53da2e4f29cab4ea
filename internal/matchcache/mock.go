package matchcache

import (
	"context"
	"sync"

	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
)

// MockMatchCache is a mock implementation of the MatchCache interface for
// testing. It is safe for concurrent use.
type MockMatchCache struct {
	mu      sync.Mutex
	entries map[int64]CachedMatch

	GetCalls   []int64
	SetCalls   []int64
	ClearCalls int
}

// NewMockMatchCache creates a new mock instance.
func NewMockMatchCache() *MockMatchCache {
	return &MockMatchCache{entries: make(map[int64]CachedMatch)}
}

var _ MatchCache = (*MockMatchCache)(nil)

func (m *MockMatchCache) Get(matchID int64) (*CachedMatch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, matchID)
	entry, ok := m.entries[matchID]
	if !ok {
		return nil, false
	}
	return &entry, true
}

func (m *MockMatchCache) Set(matchID int64, entry CachedMatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, matchID)
	m.entries[matchID] = entry
}

func (m *MockMatchCache) ClearMatch(matchID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, matchID)
}

func (m *MockMatchCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	m.entries = make(map[int64]CachedMatch)
}

func (m *MockMatchCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// MockMetadataCache is a mock implementation of the MetadataCache interface
// for testing. It never expires entries and never reschedules drains.
type MockMetadataCache struct {
	mu      sync.Mutex
	entries map[metadataKey]*playerdata.DetailedMatchMetadata
	queue   []retryEntry

	AddToRetryQueueCalls  int
	ProcessRetryQueueFunc func(fetch FetchFunc)
}

// NewMockMetadataCache creates a new mock instance.
func NewMockMetadataCache() *MockMetadataCache {
	return &MockMetadataCache{entries: make(map[metadataKey]*playerdata.DetailedMatchMetadata)}
}

var _ MetadataCache = (*MockMetadataCache)(nil)

func (m *MockMetadataCache) Get(matchID, accountID int64) (*playerdata.DetailedMatchMetadata, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	metadata, ok := m.entries[metadataKey{matchID: matchID, accountID: accountID}]
	return metadata, ok
}

func (m *MockMetadataCache) Set(matchID, accountID int64, metadata *playerdata.DetailedMatchMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[metadataKey{matchID: matchID, accountID: accountID}] = metadata
}

func (m *MockMetadataCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[metadataKey]*playerdata.DetailedMatchMetadata)
}

func (m *MockMetadataCache) AddToRetryQueue(matchID, accountID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddToRetryQueueCalls++
	m.queue = append(m.queue, retryEntry{matchID: matchID, accountID: accountID})
}

func (m *MockMetadataCache) ProcessRetryQueue(ctx context.Context, fetch FetchFunc) {
	if m.ProcessRetryQueueFunc != nil {
		m.ProcessRetryQueueFunc(fetch)
	}
}

func (m *MockMetadataCache) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
