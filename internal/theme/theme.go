// Package theme holds the active visual theme of a visitor.
//
// A Holder is loaded once per request from the preference store and passed
// down explicitly through the request context. Reading the theme where no
// holder was installed is a programming error and panics.
package theme

import (
	"context"
	"fmt"
	"sync"

	"startwise/internal/core"
	"startwise/internal/prefs"
)

type Listener func(core.Theme)

type Holder struct {
	store   prefs.Store
	visitor string

	mu        sync.Mutex
	current   core.Theme
	listeners []Listener
}

// Load reads the stored preference. A missing or unknown value yields the
// default theme; only store failures are returned.
func Load(ctx context.Context, store prefs.Store, visitor string) (*Holder, error) {
	h := &Holder{store: store, visitor: visitor, current: core.DefaultTheme}
	var stored string
	found, err := prefs.GetJSON(ctx, store, visitor, prefs.KeyTheme, &stored)
	if err != nil {
		return h, fmt.Errorf("load theme: %w", err)
	}
	if t, ok := core.ParseTheme(stored); found && ok {
		h.current = t
	}
	return h, nil
}

func (h *Holder) Theme() core.Theme {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// SetTheme makes t active, writes it back to the store and notifies every
// listener before returning. The in-memory value changes even if the write
// fails.
func (h *Holder) SetTheme(ctx context.Context, t core.Theme) error {
	h.mu.Lock()
	h.current = t
	listeners := append([]Listener(nil), h.listeners...)
	h.mu.Unlock()

	err := prefs.SetJSON(ctx, h.store, h.visitor, prefs.KeyTheme, t.String())
	for _, l := range listeners {
		l(t)
	}
	if err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}

// Toggle switches to the other theme and returns it.
func (h *Holder) Toggle(ctx context.Context) (core.Theme, error) {
	next := h.Theme().Toggle()
	return next, h.SetTheme(ctx, next)
}

// Subscribe registers l to be called on every SetTheme.
func (h *Holder) Subscribe(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

type contextKey struct{}

// WithHolder returns a context carrying h.
func WithHolder(ctx context.Context, h *Holder) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// Lookup returns the holder installed in ctx, if any.
func Lookup(ctx context.Context) (*Holder, bool) {
	h, ok := ctx.Value(contextKey{}).(*Holder)
	return h, ok && h != nil
}

// FromContext returns the holder installed in ctx and panics when there is none.
func FromContext(ctx context.Context) *Holder {
	h, ok := Lookup(ctx)
	if !ok {
		panic("theme: requested outside of an initialized context")
	}
	return h
}
