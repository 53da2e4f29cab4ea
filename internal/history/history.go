package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/storage"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	storageKey = "search_history"
	maxEntries = 50
)

// Entry is one remembered match search.
type Entry struct {
	MatchID    string    `msgpack:"match_id" json:"match_id"`
	SearchedAt time.Time `msgpack:"searched_at" json:"searched_at"`
}

// Service keeps the most-recent-first list of searched match IDs.
// This allows for mock implementations to be used in tests.
type Service interface {
	List() []Entry
	Add(matchID string) error
	Clear() error
}

type service struct {
	mu      sync.Mutex
	store   storage.Store
	entries []Entry
	loaded  bool
	now     func() time.Time
}

// New creates a storage-backed search-history service.
func New(store storage.Store) Service {
	return &service{store: store, now: time.Now}
}

var _ Service = (*service)(nil)

func (s *service) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Add puts matchID at the front of the list. Re-searching a known match
// bumps it rather than creating a duplicate; the list is capped at 50.
func (s *service) Add(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	entries := make([]Entry, 0, len(s.entries)+1)
	entries = append(entries, Entry{MatchID: matchID, SearchedAt: s.now()})
	for _, e := range s.entries {
		if e.MatchID == matchID {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	s.entries = entries

	return s.persist()
}

func (s *service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.loaded = true
	return s.store.Delete(storageKey)
}

// ensureLoaded lazily reads persisted history; failures degrade to an
// empty list.
func (s *service) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true

	raw, ok, err := s.store.Get(storageKey)
	if err != nil {
		log.Warn("Failed to load search history", "error", err)
		return
	}
	if !ok {
		return
	}
	var entries []Entry
	if err := msgpack.Unmarshal(raw, &entries); err != nil {
		log.Warn("Discarding corrupt search history", "error", err)
		return
	}
	s.entries = entries
}

func (s *service) persist() error {
	raw, err := msgpack.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode search history: %w", err)
	}
	if err := s.store.Set(storageKey, raw); err != nil {
		return fmt.Errorf("failed to persist search history: %w", err)
	}
	return nil
}
