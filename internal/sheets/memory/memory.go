// Package memory is a ContactWriter that keeps rows in process, used when no
// spreadsheet is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"startwise/internal/core"
	ports "startwise/internal/sheets"
)

type Writer struct {
	mu   sync.Mutex
	rows []core.ContactMessage
}

var _ ports.ContactWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// AppendContact stores the message and returns a synthetic row reference.
func (w *Writer) AppendContact(_ context.Context, m core.ContactMessage) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, m)
	return fmt.Sprintf("mem:%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []core.ContactMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]core.ContactMessage(nil), w.rows...)
}
