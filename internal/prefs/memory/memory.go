// Package memory is the in-process backend: visitor preferences and contact
// messages live in maps and are lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"startwise/internal/core"
	"startwise/internal/prefs"
)

type Store struct {
	mu       sync.Mutex
	values   map[string]map[string][]byte
	contacts []core.ContactMessage
}

var _ prefs.Store = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string]map[string][]byte)}
}

func (s *Store) Get(_ context.Context, visitor, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[visitor][key]
	if !ok {
		return nil, prefs.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, visitor, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.values[visitor]
	if !ok {
		ns = make(map[string][]byte)
		s.values[visitor] = ns
	}
	ns[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, visitor, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values[visitor], key)
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// SaveContact stores the message and returns its sequential id.
func (s *Store) SaveContact(_ context.Context, m core.ContactMessage) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = int64(len(s.contacts) + 1)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.Relayed = false
	s.contacts = append(s.contacts, m)
	return m.ID, nil
}

func (s *Store) GetContact(_ context.Context, id int64) (core.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.contacts)) {
		return core.ContactMessage{}, fmt.Errorf("contact %d: %w", id, prefs.ErrNotFound)
	}
	return s.contacts[id-1], nil
}

// PendingContacts returns up to limit messages not yet relayed, oldest first.
func (s *Store) PendingContacts(_ context.Context, limit int) ([]core.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.ContactMessage
	for _, m := range s.contacts {
		if len(out) >= limit {
			break
		}
		if !m.Relayed {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) MarkRelayed(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.contacts)) {
		return fmt.Errorf("contact %d: %w", id, prefs.ErrNotFound)
	}
	s.contacts[id-1].Relayed = true
	return nil
}

func (s *Store) Close() error { return nil }
