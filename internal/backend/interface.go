package backend

import (
	"context"

	"startwise/internal/core"
	"startwise/internal/prefs"
)

// Backend is everything the server and worker need from storage: visitor
// preferences plus the contact outbox.
type Backend interface {
	prefs.Store

	SaveContact(ctx context.Context, m core.ContactMessage) (int64, error)
	GetContact(ctx context.Context, id int64) (core.ContactMessage, error)
	PendingContacts(ctx context.Context, limit int) ([]core.ContactMessage, error)
	MarkRelayed(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (Backend, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type         BackendType
	SQLiteDBPath string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
