// Package checklist tracks which onboarding steps a visitor has completed.
package checklist

import (
	"context"
	"errors"
	"fmt"

	"startwise/internal/core"
	"startwise/internal/prefs"
)

var ErrUnknownItem = errors.New("unknown checklist item")

// Catalog resolves checklist item ids.
type Catalog interface {
	Items() []core.ChecklistItem
	Item(id string) (core.ChecklistItem, bool)
}

type Service struct {
	store   prefs.Store
	catalog Catalog
}

func NewService(store prefs.Store, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Completed returns the visitor's completion set; empty when nothing is stored.
func (s *Service) Completed(ctx context.Context, visitor string) (core.CompletionSet, error) {
	var ids []string
	if _, err := prefs.GetJSON(ctx, s.store, visitor, prefs.KeyChecklist, &ids); err != nil {
		return core.NewCompletionSet(), fmt.Errorf("load checklist: %w", err)
	}
	return core.NewCompletionSet(ids...), nil
}

// Set marks item id as checked or unchecked and persists the result.
func (s *Service) Set(ctx context.Context, visitor, id string, checked bool) (core.CompletionSet, error) {
	return s.update(ctx, visitor, id, func(set *core.CompletionSet) { set.Set(id, checked) })
}

// Toggle flips item id and persists the result.
func (s *Service) Toggle(ctx context.Context, visitor, id string) (core.CompletionSet, error) {
	return s.update(ctx, visitor, id, func(set *core.CompletionSet) { set.Toggle(id) })
}

func (s *Service) update(ctx context.Context, visitor, id string, apply func(*core.CompletionSet)) (core.CompletionSet, error) {
	if _, ok := s.catalog.Item(id); !ok {
		return core.CompletionSet{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	set, err := s.Completed(ctx, visitor)
	if err != nil {
		return set, err
	}
	apply(&set)
	if err := prefs.SetJSON(ctx, s.store, visitor, prefs.KeyChecklist, set.IDs()); err != nil {
		return set, fmt.Errorf("save checklist: %w", err)
	}
	return set, nil
}

// Progress is the percentage of catalog items the visitor has completed.
func (s *Service) Progress(set core.CompletionSet) int {
	return set.Progress(s.catalog.Items())
}
