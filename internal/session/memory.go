package session

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in a TTL'd map. Zero TTL disables expiry.
type MemoryStore struct {
	items map[int64]memoryItem
	ttl   time.Duration
	mu    sync.RWMutex
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[int64]memoryItem),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	s.mu.RLock()
	item, exists := s.items[userID]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		s.mu.Lock()
		delete(s.items, userID)
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	copied := item.session
	return &copied, nil
}

func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}
	s.items[sess.UserID] = memoryItem{
		session:   *sess,
		expiresAt: expiresAt,
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, userID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
