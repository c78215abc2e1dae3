package cache

import (
	"context"
	"errors"
	"time"

	"startwise/internal/prefs"
)

// entry remembers misses too, so a fresh visitor costs one lookup per key.
type entry struct {
	value []byte
	found bool
}

// PrefsStore is a read-through, write-through cache in front of a prefs.Store.
type PrefsStore struct {
	next  prefs.Store
	cache *LRUCache[entry]
}

var _ prefs.Store = (*PrefsStore)(nil)

func NewPrefsStore(next prefs.Store, maxSize int, ttl time.Duration) *PrefsStore {
	return &PrefsStore{next: next, cache: NewLRUCache[entry](maxSize, ttl)}
}

// Cleaner exposes the underlying cache for registration with a Manager.
func (s *PrefsStore) Cleaner() Cleaner {
	return s.cache
}

func cacheKey(visitor, key string) string {
	return visitor + "\x00" + key
}

func (s *PrefsStore) Get(ctx context.Context, visitor, key string) ([]byte, error) {
	ck := cacheKey(visitor, key)
	if e, ok := s.cache.Get(ck); ok {
		if !e.found {
			return nil, prefs.ErrNotFound
		}
		return append([]byte(nil), e.value...), nil
	}

	v, err := s.next.Get(ctx, visitor, key)
	switch {
	case errors.Is(err, prefs.ErrNotFound):
		s.cache.Set(ck, entry{})
		return nil, err
	case err != nil:
		return nil, err
	}
	s.cache.Set(ck, entry{value: append([]byte(nil), v...), found: true})
	return v, nil
}

func (s *PrefsStore) Set(ctx context.Context, visitor, key string, value []byte) error {
	ck := cacheKey(visitor, key)
	if err := s.next.Set(ctx, visitor, key, value); err != nil {
		s.cache.Delete(ck)
		return err
	}
	s.cache.Set(ck, entry{value: append([]byte(nil), value...), found: true})
	return nil
}

func (s *PrefsStore) Delete(ctx context.Context, visitor, key string) error {
	ck := cacheKey(visitor, key)
	if err := s.next.Delete(ctx, visitor, key); err != nil {
		s.cache.Delete(ck)
		return err
	}
	s.cache.Set(ck, entry{})
	return nil
}
