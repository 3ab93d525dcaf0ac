package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the fallback when Redis is not configured. Suitable for
// dev and single-process deployments only: sessions do not survive a
// restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	s.mu.RLock()
	item, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if item.Expired(time.Now().UTC()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, nil
	}
	out := item
	return &out, nil
}

func (s *MemoryStore) Save(ctx context.Context, item *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[item.Token] = *item
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
