package avatar

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type entry struct {
	url          string
	cacheControl int
}

// Store is an in-memory map from (uuid, size) to avatar URL. It never
// expires entries on its own; only Remove and Clear drop them.
type Store struct {
	mu     sync.RWMutex
	items  map[Key]entry
	logger *zap.Logger
}

// NewStore creates an empty store owned by one client session.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		items:  make(map[Key]entry),
		logger: logger,
	}
}

// Add validates item and stores its URL, replacing any value under the
// same key.
func (s *Store) Add(item *Item) error {
	if err := ValidateItem(item); err != nil {
		return err
	}

	key, err := newKey(item.UUID, item.Size)
	if err != nil {
		return fmt.Errorf("build key: %w", err)
	}

	s.mu.Lock()
	s.items[key] = entry{
		url:          item.URL,
		cacheControl: item.CacheControl,
	}
	s.mu.Unlock()

	s.logger.Debug("Avatar URL stored",
		zap.String("uuid", item.UUID),
		zap.Int("size", item.Size),
		zap.Int("cache_control", item.CacheControl),
	)
	return nil
}

// Get returns the URL stored for the query's key.
func (s *Store) Get(q *Query) (string, error) {
	if err := ValidateQuery(q); err != nil {
		return "", err
	}

	key, err := newKey(q.UUID, q.Size)
	if err != nil {
		return "", fmt.Errorf("build key: %w", err)
	}

	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return e.url, nil
}

// Remove deletes the (uuid, size) entry, or every entry for uuid when
// Size is not positive. Absent entries are not an error.
func (s *Store) Remove(q *Query) {
	if q == nil {
		return
	}
	key, err := newKey(q.UUID, q.Size)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if q.Size > 0 {
		if _, ok := s.items[key]; ok {
			delete(s.items, key)
			s.logger.Debug("Avatar URL removed", zap.String("uuid", q.UUID), zap.Int("size", q.Size))
		}
		return
	}

	removed := 0
	for k := range s.items {
		if k.ID == key.ID {
			delete(s.items, k)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("Avatar URLs removed", zap.String("uuid", q.UUID), zap.Int("count", removed))
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[Key]entry)
}
