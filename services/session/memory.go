package session

import (
	"context"
	"sync"
	"time"

	"cupbot/models"
)

// MemoryStore is a process-local Store. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*models.Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*models.Session),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess.Clone(), nil
	}
	return models.NewSession(userID), nil
}

func (s *MemoryStore) Update(_ context.Context, userID int64, patch models.SessionPatch) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = models.NewSession(userID)
		s.sessions[userID] = sess
	}
	sess.Apply(patch)
	sess.UpdatedAt = s.now()
	return sess.Clone(), nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// Len is the number of users with non-default state.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
