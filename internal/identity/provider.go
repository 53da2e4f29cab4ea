package identity

import (
	"fmt"
	"sync"

	"github.com/DeadLyze/deadlyze-app/internal/storage"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const storageKey = "current_identity"

// provider caches the identity in memory and persists it so restarts keep
// the detected player without re-probing Steam.
type provider struct {
	mu      sync.Mutex
	store   storage.Store
	current *Identity
	loaded  bool
}

// New creates a storage-backed identity provider.
func New(store storage.Store) Provider {
	return &provider{store: store}
}

var _ Provider = (*provider)(nil)

func (p *provider) Current() (*Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		p.loaded = true
		p.current = p.load()
	}
	if p.current == nil {
		return nil, false
	}
	id := *p.current
	return &id, true
}

// load reads the persisted identity. Any storage or decode failure is
// treated as "no identity known".
func (p *provider) load() *Identity {
	raw, ok, err := p.store.Get(storageKey)
	if err != nil {
		log.Warn("Failed to load cached identity", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var id Identity
	if err := msgpack.Unmarshal(raw, &id); err != nil {
		log.Warn("Discarding corrupt cached identity", "error", err)
		return nil
	}
	return &id
}

func (p *provider) Set(steamID64 int64, personaName string) (*Identity, error) {
	id := Identity{
		SteamID64:   steamID64,
		AccountID:   AccountIDFromSteamID64(steamID64),
		PersonaName: personaName,
	}

	raw, err := msgpack.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := p.store.Set(storageKey, raw); err != nil {
		return nil, fmt.Errorf("failed to persist identity: %w", err)
	}

	p.mu.Lock()
	p.current = &id
	p.loaded = true
	p.mu.Unlock()

	log.Info("Current identity updated", "accountID", id.AccountID, "personaName", personaName)
	return &id, nil
}

func (p *provider) Clear() error {
	p.mu.Lock()
	p.current = nil
	p.loaded = true
	p.mu.Unlock()
	return p.store.Delete(storageKey)
}
