// Package keystate holds the process-wide encryption key state: either unset
// or set to a HashedKey. It is the single source of truth read by the parts
// of the client that decrypt data, and it is written only through Commit so
// that the in-memory value and durable storage move together.
package keystate

import (
	"context"
	"sync"
)

// HashedKey is the derived credential kept in place of the raw passphrase.
// The empty HashedKey means "unset".
type HashedKey string

// State is safe for concurrent use.
type State struct {
	mu  sync.RWMutex
	key HashedKey

	// notifyMu keeps notifications in commit order without holding mu
	// while subscribers run.
	notifyMu sync.Mutex

	subsMu sync.Mutex
	subs   map[int]func(HashedKey)
	nextID int
}

func New() *State {
	return &State{subs: make(map[int]func(HashedKey))}
}

// Get returns the current key and whether one is set.
func (s *State) Get() (HashedKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key, s.key != ""
}

// IsSet reports whether a key is present.
func (s *State) IsSet() bool {
	_, ok := s.Get()
	return ok
}

// Commit changes the state to next (empty means unset) once persist has
// succeeded. The write lock is held while persist runs, so no reader can
// observe a value that durable storage does not hold. If persist fails the
// state is left unchanged and the error is returned. A nil persist only
// changes the in-memory value.
func (s *State) Commit(ctx context.Context, next HashedKey, persist func(ctx context.Context) error) error {
	s.mu.Lock()
	if persist != nil {
		if err := persist(ctx); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	changed := s.key != next
	s.key = next

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	if changed {
		for _, fn := range s.subscribers() {
			fn(next)
		}
	}
	return nil
}

// Subscribe registers fn to be called with the new value after every
// commit that changes the state. Subscribers run synchronously on the
// committing goroutine and may call Get, but must not call Commit.
// The returned func unsubscribes.
func (s *State) Subscribe(fn func(HashedKey)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *State) subscribers() []func(HashedKey) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	out := make([]func(HashedKey), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
