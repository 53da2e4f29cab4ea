package identity

import "sync"

// MockProvider is a mock implementation of the Provider interface for testing.
// It is safe for concurrent use.
type MockProvider struct {
	mu sync.Mutex

	Identity *Identity

	CurrentCalls int
	SetCalls     int
	ClearCalls   int
}

// NewMockProvider creates a new mock instance.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) Current() (*Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentCalls++
	if m.Identity == nil {
		return nil, false
	}
	id := *m.Identity
	return &id, true
}

func (m *MockProvider) Set(steamID64 int64, personaName string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	m.Identity = &Identity{
		SteamID64:   steamID64,
		AccountID:   AccountIDFromSteamID64(steamID64),
		PersonaName: personaName,
	}
	return m.Identity, nil
}

func (m *MockProvider) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	m.Identity = nil
	return nil
}
