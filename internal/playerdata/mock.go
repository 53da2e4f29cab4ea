package playerdata

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	FetchMMRFunc           func(accountIDs []int64) ([]PlayerMMR, error)
	FetchMatchHistoryFunc  func(accountID int64) ([]MatchHistoryItem, error)
	FetchMateStatsFunc     func(accountID int64, minUnixTimestamp int64) ([]MateStats, error)
	FetchEnemyStatsFunc    func(accountID int64) ([]EnemyStats, error)
	FetchMatchMetadataFunc func(matchID int64) (*DetailedMatchMetadata, error)

	// Call records
	FetchMMRCalls           [][]int64
	FetchMatchHistoryCalls  []int64
	FetchMateStatsCalls     []int64
	FetchEnemyStatsCalls    []int64
	FetchMatchMetadataCalls []int64
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ Client = (*MockClient)(nil)

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchMMRCalls = nil
	m.FetchMatchHistoryCalls = nil
	m.FetchMateStatsCalls = nil
	m.FetchEnemyStatsCalls = nil
	m.FetchMatchMetadataCalls = nil
}

func (m *MockClient) FetchMMR(ctx context.Context, accountIDs []int64) ([]PlayerMMR, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchMMRCalls = append(m.FetchMMRCalls, accountIDs)
	if m.FetchMMRFunc != nil {
		return m.FetchMMRFunc(accountIDs)
	}
	return nil, nil
}

func (m *MockClient) FetchMMRMap(ctx context.Context, accountIDs []int64) (map[int64]PlayerMMR, error) {
	mmr, err := m.FetchMMR(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	mmrMap := make(map[int64]PlayerMMR)
	for _, entry := range mmr {
		mmrMap[entry.AccountID] = entry
	}
	return mmrMap, nil
}

func (m *MockClient) FetchMatchHistory(ctx context.Context, accountID int64) ([]MatchHistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchMatchHistoryCalls = append(m.FetchMatchHistoryCalls, accountID)
	if m.FetchMatchHistoryFunc != nil {
		return m.FetchMatchHistoryFunc(accountID)
	}
	return nil, nil
}

func (m *MockClient) FetchMateStats(ctx context.Context, accountID int64, minUnixTimestamp int64) ([]MateStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchMateStatsCalls = append(m.FetchMateStatsCalls, accountID)
	if m.FetchMateStatsFunc != nil {
		return m.FetchMateStatsFunc(accountID, minUnixTimestamp)
	}
	return nil, nil
}

func (m *MockClient) FetchEnemyStats(ctx context.Context, accountID int64) ([]EnemyStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchEnemyStatsCalls = append(m.FetchEnemyStatsCalls, accountID)
	if m.FetchEnemyStatsFunc != nil {
		return m.FetchEnemyStatsFunc(accountID)
	}
	return nil, nil
}

func (m *MockClient) FetchMatchMetadata(ctx context.Context, matchID int64) (*DetailedMatchMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchMatchMetadataCalls = append(m.FetchMatchMetadataCalls, matchID)
	if m.FetchMatchMetadataFunc != nil {
		return m.FetchMatchMetadataFunc(matchID)
	}
	return nil, nil
}
