package party

import (
	"context"
	"sync"

	"github.com/DeadLyze/deadlyze-app/internal/livematch"
)

// MockDetector is a mock implementation of the Detector interface for testing.
// It is safe for concurrent use.
type MockDetector struct {
	mu sync.Mutex

	DetectPartyGroupsFunc func(players []livematch.MatchPlayer) []Group

	DetectPartyGroupsCalls int
}

// NewMockDetector creates a new mock instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

var _ Detector = (*MockDetector)(nil)

func (m *MockDetector) DetectPartyGroups(ctx context.Context, players []livematch.MatchPlayer) []Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetectPartyGroupsCalls++
	if m.DetectPartyGroupsFunc != nil {
		return m.DetectPartyGroupsFunc(players)
	}
	return nil
}
