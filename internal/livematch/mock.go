package livematch

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	FetchMatchDataFunc func(matchID string) (*MatchData, error)

	FetchMatchDataCalls []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) FetchMatchData(ctx context.Context, matchID string) (*MatchData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchMatchDataCalls = append(m.FetchMatchDataCalls, matchID)
	if m.FetchMatchDataFunc != nil {
		return m.FetchMatchDataFunc(matchID)
	}
	return &MatchData{}, nil
}
