package memory

import (
	"context"
	"errors"
	"testing"

	"startwise/internal/core"
	"startwise/internal/prefs"
)

func TestStoreVisitorIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "a", prefs.KeyTheme); !errors.Is(err, prefs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "a", prefs.KeyTheme, []byte(`"playful"`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := s.Get(ctx, "b", prefs.KeyTheme); !errors.Is(err, prefs.ErrNotFound) {
		t.Fatalf("visitor b should not see a's value, got %v", err)
	}
	got, err := s.Get(ctx, "a", prefs.KeyTheme)
	if err != nil || string(got) != `"playful"` {
		t.Fatalf("get=%q err=%v", got, err)
	}

	// Returned slices are copies.
	got[0] = 'X'
	again, _ := s.Get(ctx, "a", prefs.KeyTheme)
	if string(again) != `"playful"` {
		t.Fatalf("store value mutated through returned slice: %q", again)
	}

	if err := s.Delete(ctx, "a", prefs.KeyTheme); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "a", prefs.KeyTheme); !errors.Is(err, prefs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreContacts(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.SaveContact(ctx, core.ContactMessage{Name: "x"}); err == nil {
		t.Fatalf("invalid message should be rejected")
	}
	for i := 0; i < 3; i++ {
		id, err := s.SaveContact(ctx, core.ContactMessage{Name: "Lerato", Email: "l@example.com", Body: "hello"})
		if err != nil || id != int64(i+1) {
			t.Fatalf("save %d: id=%d err=%v", i, id, err)
		}
	}
	if err := s.MarkRelayed(ctx, 1); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending, _ := s.PendingContacts(ctx, 10)
	if len(pending) != 2 || pending[0].ID != 2 {
		t.Fatalf("unexpected pending %+v", pending)
	}
	if limited, _ := s.PendingContacts(ctx, 1); len(limited) != 1 {
		t.Fatalf("limit not applied: %d", len(limited))
	}
	if _, err := s.GetContact(ctx, 9); !errors.Is(err, prefs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if m, err := s.GetContact(ctx, 1); err != nil || !m.Relayed || m.CreatedAt.IsZero() {
		t.Fatalf("get 1: %+v %v", m, err)
	}
}
