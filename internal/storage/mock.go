package storage

import "sync"

// Mock is an in-memory implementation of the Store interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu     sync.Mutex
	values map[string][]byte

	// GetErr, SetErr force errors for failure-path tests.
	GetErr error
	SetErr error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{values: make(map[string][]byte)}
}

var _ Store = (*Mock)(nil)

func (m *Mock) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Mock) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.values[key] = cp
	return nil
}

func (m *Mock) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Mock) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string][]byte)
	return nil
}
