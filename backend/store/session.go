package store

import (
	"context"
	"sync"
)

// SessionStore layers an in-memory overlay over a durable Store. A write the
// durable store rejects is kept in the overlay for the rest of the session and
// the error is still returned, so the caller can tell the value is
// session-only.
type SessionStore struct {
	durable Store

	mu      sync.RWMutex
	overlay map[string]string
}

func NewSessionStore(durable Store) *SessionStore {
	return &SessionStore{durable: durable, overlay: make(map[string]string)}
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	v, ok := s.overlay[key]
	s.mu.RUnlock()
	if ok {
		return v, true, nil
	}
	return s.durable.Get(ctx, key)
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	err := s.durable.Set(ctx, key, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.overlay[key] = value
		return err
	}
	// the durable copy is current again
	delete(s.overlay, key)
	return nil
}

// Degraded reports whether any value lives only in the overlay.
func (s *SessionStore) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.overlay) > 0
}
