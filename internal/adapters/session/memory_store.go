package session

import (
	"context"
	"sync"
	"time"

	"skillbook/internal/core/services"

	"github.com/google/uuid"
)

type memoryEntry struct {
	session   services.Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Used with DB_DRIVER=memory and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, sess services.Session, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.entries[storageKey(id)] = memoryEntry{session: sess, expiresAt: s.now().Add(ttl)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*services.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storageKey(id)
	entry, ok := s.entries[key]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, services.ErrSessionNotFound
	}
	sess := entry.session
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storageKey(id)
	if _, ok := s.entries[key]; !ok {
		return services.ErrSessionNotFound
	}
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
