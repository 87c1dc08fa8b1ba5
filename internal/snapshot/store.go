// Package snapshot holds the current quote snapshot per asset.
package snapshot

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/navid-fn/spread-radar/internal/models"
)

var ErrNoSnapshot = errors.New("no snapshot for asset")

// Store keeps the latest snapshot per asset. Set replaces wholesale; readers
// get a copy, so a snapshot is never mutated after it is stored.
type Store struct {
	mu          sync.RWMutex
	snapshots   map[string]models.Snapshot
	subscribers map[int]chan models.Snapshot
	nextID      int
}

func NewStore() *Store {
	return &Store{
		snapshots:   make(map[string]models.Snapshot),
		subscribers: make(map[int]chan models.Snapshot),
	}
}

func key(asset string) string {
	return strings.ToUpper(asset)
}

// Set stores s as the current snapshot for its asset and notifies subscribers.
// A subscriber whose buffer is full misses this update rather than blocking the poller.
func (s *Store) Set(snap models.Snapshot) {
	snap.Quotes = cloneQuotes(snap.Quotes)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[key(snap.Asset)] = snap
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Get returns the current snapshot for asset.
func (s *Store) Get(asset string) (models.Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[key(asset)]
	s.mu.RUnlock()

	if !ok {
		return models.Snapshot{}, ErrNoSnapshot
	}
	snap.Quotes = cloneQuotes(snap.Quotes)
	return snap, nil
}

// Assets lists the assets that have a snapshot, sorted.
func (s *Store) Assets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.snapshots))
	for a := range s.snapshots {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Subscribe returns a channel receiving every stored snapshot and a cancel func
// that unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan models.Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan models.Snapshot, buffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func cloneQuotes(q []models.ExchangeQuote) []models.ExchangeQuote {
	if q == nil {
		return nil
	}
	out := make([]models.ExchangeQuote, len(q))
	copy(out, q)
	return out
}
