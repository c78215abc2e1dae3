// Package worker relays saved contact messages to the contacts spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"startwise/internal/amqp"
	"startwise/internal/core"
	"startwise/internal/sheets"
)

// Outbox is the storage side of the relay.
type Outbox interface {
	GetContact(ctx context.Context, id int64) (core.ContactMessage, error)
	PendingContacts(ctx context.Context, limit int) ([]core.ContactMessage, error)
	MarkRelayed(ctx context.Context, id int64) error
}

// ContactRelay is shared by the AMQP consumer and the pending sweep. A
// contact is claimed before it is appended so the two never write it twice.
type ContactRelay struct {
	outbox    Outbox
	sheets    sheets.ContactWriter
	batchSize int

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func NewContactRelay(outbox Outbox, writer sheets.ContactWriter, batchSize int) *ContactRelay {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &ContactRelay{outbox: outbox, sheets: writer, batchSize: batchSize, inFlight: make(map[int64]struct{})}
}

// HandleMessage relays the message named by an AMQP notification. Messages
// already relayed are acknowledged without writing a second row.
func (w *ContactRelay) HandleMessage(ctx context.Context, msg *amqp.ContactSubmittedMessage) error {
	_, err := w.relay(ctx, msg.ID)
	return err
}

// ProcessPending relays up to one batch of messages that were saved but never
// relayed, covering notifications lost while the broker was down. It returns
// how many rows were written.
func (w *ContactRelay) ProcessPending(ctx context.Context) (int, error) {
	pending, err := w.outbox.PendingContacts(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("get pending contacts: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending contacts", "count", len(pending))

	relayed := 0
	for _, m := range pending {
		if err := ctx.Err(); err != nil {
			return relayed, err
		}
		wrote, err := w.relay(ctx, m.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to relay contact", "id", m.ID, "error", err)
			continue
		}
		if wrote {
			relayed++
		}
	}
	return relayed, nil
}

// Sweep runs ProcessPending immediately and then every interval until ctx is done.
func (w *ContactRelay) Sweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := w.ProcessPending(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// relay appends contact id to the sheet unless it is already relayed or
// being relayed by another caller. It reports whether a row was written.
func (w *ContactRelay) relay(ctx context.Context, id int64) (bool, error) {
	if !w.claim(id) {
		slog.InfoContext(ctx, "Contact relay already in progress, skipping", "id", id)
		return false, nil
	}
	defer w.release(id)

	// Re-read after claiming: the other path may have finished it meanwhile.
	m, err := w.outbox.GetContact(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get contact from storage: %w", err)
	}
	if m.Relayed {
		slog.InfoContext(ctx, "Contact already relayed, skipping", "id", id)
		return false, nil
	}

	ref, err := w.sheets.AppendContact(ctx, m)
	if err != nil {
		return false, fmt.Errorf("append to sheets: %w", err)
	}
	// The row exists now; a failed mark only means a possible duplicate row later.
	if err := w.outbox.MarkRelayed(ctx, m.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark contact as relayed", "id", m.ID, "error", err)
	}
	slog.InfoContext(ctx, "Contact relayed", "id", m.ID, "sheets_ref", ref)
	return true, nil
}

func (w *ContactRelay) claim(id int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[id]; busy {
		return false
	}
	w.inFlight[id] = struct{}{}
	return true
}

func (w *ContactRelay) release(id int64) {
	w.mu.Lock()
	delete(w.inFlight, id)
	w.mu.Unlock()
}
