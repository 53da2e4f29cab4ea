package assets

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	FetchHeroFunc   func(heroID int64) (*Hero, error)
	FetchHeroesFunc func(heroIDs []int64) (map[int64]Hero, error)
	FetchRanksFunc  func() ([]Rank, error)
	FetchItemsFunc  func(itemIDs []int64) (map[int64]Item, error)

	// Call records
	FetchHeroCalls   []int64
	FetchHeroesCalls [][]int64
	FetchRanksCalls  int
	FetchItemsCalls  [][]int64
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) FetchHero(ctx context.Context, heroID int64) (*Hero, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchHeroCalls = append(m.FetchHeroCalls, heroID)
	if m.FetchHeroFunc != nil {
		return m.FetchHeroFunc(heroID)
	}
	return &Hero{ID: heroID}, nil
}

func (m *MockClient) FetchHeroes(ctx context.Context, heroIDs []int64) (map[int64]Hero, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchHeroesCalls = append(m.FetchHeroesCalls, heroIDs)
	if m.FetchHeroesFunc != nil {
		return m.FetchHeroesFunc(heroIDs)
	}
	heroes := make(map[int64]Hero)
	for _, id := range heroIDs {
		heroes[id] = Hero{ID: id}
	}
	return heroes, nil
}

func (m *MockClient) FetchRanks(ctx context.Context) ([]Rank, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchRanksCalls++
	if m.FetchRanksFunc != nil {
		return m.FetchRanksFunc()
	}
	return nil, nil
}

func (m *MockClient) FetchItems(ctx context.Context, itemIDs []int64) (map[int64]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchItemsCalls = append(m.FetchItemsCalls, itemIDs)
	if m.FetchItemsFunc != nil {
		return m.FetchItemsFunc(itemIDs)
	}
	return make(map[int64]Item), nil
}
