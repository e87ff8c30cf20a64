package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	cp := *s
	m.mu.Lock()
	m.sessions[s.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune removes expired sessions.
func (m *MemoryStore) Prune() {
	now := m.now()
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
}

// RunCleanup prunes expired sessions every interval until ctx is done.
func (m *MemoryStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Prune()
		}
	}
}
