package budget

import (
	"sync"
	"time"
)

// Mock is a mock implementation of the Budget interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	AvailableFunc func() int
	ConsumeFunc   func(key string) bool

	ConsumeCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

var _ Budget = (*Mock)(nil)

func (m *Mock) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AvailableFunc != nil {
		return m.AvailableFunc()
	}
	return 10
}

func (m *Mock) Consume(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConsumeCalls = append(m.ConsumeCalls, key)
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(key)
	}
	return true
}

func (m *Mock) CanConsume(key string) bool {
	return true
}

func (m *Mock) RemainingTime() time.Duration {
	return 0
}
