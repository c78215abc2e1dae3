// Package sheets holds the outbound port used to relay contact messages to
// a spreadsheet.
package sheets

import (
	"context"

	"startwise/internal/core"
)

// ContactWriter appends one contact message as a spreadsheet row.
type ContactWriter interface {
	AppendContact(ctx context.Context, m core.ContactMessage) (rowRef string, err error)
}
