package session

import (
	"context"
	"sync"
	"time"
)

// memoryEntry — запись in-memory хранилища.
type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore — in-memory реализация Store с lazy expiry.
// Истёкшие записи не удаляются фоновым процессом: Get и Del
// проверяют срок жизни при обращении, как Redis с нативным TTL.
// Используется в тестах и при локальной разработке без Redis.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now — источник времени, подменяется в тестах.
	now func() time.Time
}

// NewMemoryStore создаёт пустое in-memory хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get возвращает значение по ключу или ErrNotFound.
// Истёкшая запись неотличима от отсутствующей.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return "", ErrNotFound
	}
	return e.value, nil
}

// Set сохраняет значение с TTL.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Del удаляет ключ. ErrNotFound для отсутствующего или истёкшего ключа.
func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return ErrNotFound
	}
	delete(s.entries, key)
	if s.now().After(e.expiresAt) {
		return ErrNotFound
	}
	return nil
}

// Ping всегда успешен: хранилище в памяти процесса.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
