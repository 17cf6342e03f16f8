package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"pizza_store/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Store persists session data by id. Implementations must be safe for
// concurrent use.
type Store interface {
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	SetSession(ctx context.Context, sessionID string, data *models.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	data      models.Session
	expiresAt time.Time
}

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return nil, ErrNotFound
	}
	data := copySession(entry.data)
	return &data, nil
}

func (s *MemoryStore) SetSession(ctx context.Context, sessionID string, data *models.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = memoryEntry{data: copySession(*data), expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func copySession(in models.Session) models.Session {
	out := in
	if in.Flashes != nil {
		out.Flashes = append([]models.Flash(nil), in.Flashes...)
	}
	return out
}
