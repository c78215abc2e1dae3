package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"startwise/internal/core"
)

type (
	// ContactStore persists contact messages.
	ContactStore interface {
		SaveContact(ctx context.Context, m core.ContactMessage) (int64, error)
	}

	// ContactPublisher announces a saved message to the relay worker.
	ContactPublisher interface {
		PublishContactSubmitted(ctx context.Context, id int64) error
		Close() error
	}
)

// ContactService saves contact messages locally and notifies the relay worker.
type ContactService struct {
	store     ContactStore
	publisher ContactPublisher
}

// NewContactService accepts a nil publisher; messages are then only saved and
// the worker's pending sweep picks them up.
func NewContactService(store ContactStore, publisher ContactPublisher) *ContactService {
	return &ContactService{store: store, publisher: publisher}
}

// Submit validates and saves m, then publishes a relay notification. A
// publish failure is logged and does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, m core.ContactMessage) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.SaveContact(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("save contact: %w", err)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping contact notification", "id", id)
		return id, nil
	}
	if err := s.publisher.PublishContactSubmitted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish contact notification", "id", id, "error", err)
	}
	return id, nil
}

func (s *ContactService) Close() error {
	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	return errors.Join(errs...)
}
