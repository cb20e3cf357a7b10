package avatar

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Options struct {
	DefaultSize int
	// Expire schedules removal of fetched entries after their
	// cache-control lifetime.
	Expire bool
}

// Service answers avatar URL lookups from the store, falling back to the
// avatar service on a miss.
type Service struct {
	store   *Store
	fetcher Fetcher
	opts    Options
	logger  *zap.Logger

	mu     sync.Mutex
	timers map[Key]*time.Timer
}

func NewService(store *Store, fetcher Fetcher, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultSize <= 0 {
		opts.DefaultSize = 80
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
		timers:  make(map[Key]*time.Timer),
	}
}

func (s *Service) Store() *Store {
	return s.store
}

// RetrieveURL returns the avatar URL for id at size, using DefaultSize
// when size is 0.
func (s *Service) RetrieveURL(ctx context.Context, id string, size int) (string, error) {
	if size == 0 {
		size = s.opts.DefaultSize
	}

	url, err := s.store.Get(&Query{UUID: id, Size: size})
	if err == nil {
		return url, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	item, err := s.fetcher.Fetch(ctx, id, size)
	if err != nil {
		return "", err
	}
	if err := s.store.Add(item); err != nil {
		return "", err
	}

	s.logger.Info("Avatar URL fetched",
		zap.String("uuid", id),
		zap.Int("size", size),
		zap.Int("cache_control", item.CacheControl),
	)

	if s.opts.Expire {
		s.scheduleRemoval(item)
	}
	return item.URL, nil
}

func (s *Service) scheduleRemoval(item *Item) {
	key, err := newKey(item.UUID, item.Size)
	if err != nil {
		return
	}
	q := item.Query()
	ttl := time.Duration(item.CacheControl) * time.Second

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(ttl, func() {
		s.mu.Lock()
		if s.timers[key] == t {
			delete(s.timers, key)
		}
		s.mu.Unlock()

		s.store.Remove(q)
		s.logger.Debug("Avatar URL expired", zap.String("uuid", q.UUID), zap.Int("size", q.Size))
	})
	s.timers[key] = t
}

// Close stops pending removals and empties the store.
func (s *Service) Close() {
	s.mu.Lock()
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
	s.mu.Unlock()

	s.store.Clear()
}
