// Package prefs is the per-visitor persisted storage used by the pages.
//
// Values are JSON documents under fixed string keys, one namespace per
// visitor. Writes are last-write-wins with no conflict handling.
package prefs

import (
	"context"
	"errors"
)

// Storage keys.
const (
	KeyTheme     = "startwise-theme"
	KeyChecklist = "startwise-checklist-progress"
	KeyIncome    = "startwise-forecaster-income"
	KeyExpenses  = "startwise-forecaster-expenses"
)

// ErrNotFound is returned by Get when the visitor has no value for a key.
var ErrNotFound = errors.New("preference not found")

// Store is implemented by the memory and SQLite backends.
type Store interface {
	Get(ctx context.Context, visitor, key string) ([]byte, error)
	Set(ctx context.Context, visitor, key string, value []byte) error
	Delete(ctx context.Context, visitor, key string) error
}
