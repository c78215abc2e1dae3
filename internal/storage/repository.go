// Package storage is the SQLite backend for visitor preferences and the
// contact message outbox.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"startwise/internal/core"
	"startwise/internal/prefs"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ prefs.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serialises writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Get(ctx context.Context, visitor, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor = ? AND key = ?`, visitor, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, prefs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select preference: %w", err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, visitor, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (visitor, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		visitor, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, visitor, key string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE visitor = ? AND key = ?`, visitor, key); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}

// SaveContact stores a validated message in the outbox and returns its id.
func (r *SQLiteRepository) SaveContact(ctx context.Context, m core.ContactMessage) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (name, email, subject, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.Subject, m.Body, m.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contact id: %w", err)
	}

	slog.InfoContext(ctx, "Contact message saved to SQLite", "id", id, "subject", m.Subject)
	return id, nil
}

const contactColumns = `id, name, email, subject, body, created_at, relayed`

func scanContact(row interface{ Scan(...any) error }) (core.ContactMessage, error) {
	var m core.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt, &m.Relayed)
	return m, err
}

func (r *SQLiteRepository) GetContact(ctx context.Context, id int64) (core.ContactMessage, error) {
	m, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("contact %d: %w", id, prefs.ErrNotFound)
	}
	if err != nil {
		return m, fmt.Errorf("select contact %d: %w", id, err)
	}
	return m, nil
}

// PendingContacts returns up to limit messages not yet relayed, oldest first.
func (r *SQLiteRepository) PendingContacts(ctx context.Context, limit int) ([]core.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE relayed = 0 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending contacts: %w", err)
	}
	defer rows.Close()

	var out []core.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkRelayed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET relayed = 1, relayed_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark contact %d relayed: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("contact %d: %w", id, prefs.ErrNotFound)
	}
	return nil
}
