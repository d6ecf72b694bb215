package form

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/resultdesk/internal/pkg/apperrors"
)

// Store keeps open forms between requests
type Store interface {
	Save(ctx context.Context, id string, state State) error
	// Load returns apperrors.ErrFormNotFound for unknown or expired ids
	Load(ctx context.Context, id string) (State, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore is a process-local Store with a sliding TTL
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore. A non-positive ttl keeps forms forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, id string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{state: cloneState(state), expires: s.expiry()}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return State{}, apperrors.ErrFormNotFound
	}
	if !entry.expires.IsZero() && s.now().After(entry.expires) {
		delete(s.entries, id)
		return State{}, apperrors.ErrFormNotFound
	}

	entry.expires = s.expiry()
	s.entries[id] = entry
	return cloneState(entry.state), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Purge drops expired forms and returns how many were removed
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.entries {
		if !entry.expires.IsZero() && now.After(entry.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

func cloneState(state State) State {
	state.Errors = state.Errors.clone()
	return state
}
