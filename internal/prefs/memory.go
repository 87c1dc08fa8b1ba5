package prefs

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	prefs     Preferences
	expiresAt time.Time
}

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]entry
	defaults Preferences
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store. A ttl <= 0 keeps entries until cleared.
func NewMemoryStore(defaults Preferences, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]entry),
		defaults: defaults,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Init(ctx context.Context, id string) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.lookup(id); ok {
		return p, nil
	}
	p := s.defaults
	p.UpdatedAt = s.now().UTC()
	s.put(id, p)
	return p, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.lookup(id); ok {
		return p, nil
	}
	return Preferences{}, ErrNotFound
}

func (s *MemoryStore) Save(ctx context.Context, id string, p Preferences) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = Normalize(p, s.defaults)
	p.UpdatedAt = s.now().UTC()
	s.put(id, p)
	return p, nil
}

func (s *MemoryStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// lookup must be called with mu held; it evicts expired entries.
func (s *MemoryStore) lookup(id string) (Preferences, bool) {
	e, ok := s.entries[id]
	if !ok {
		return Preferences{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return Preferences{}, false
	}
	return e.prefs, true
}

func (s *MemoryStore) put(id string, p Preferences) {
	e := entry{prefs: p}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[id] = e
}
