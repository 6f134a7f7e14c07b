// Package store keeps saved histories in a SQLite database.
//
// Each row holds one document, keyed by its id and encoded with the JSON
// codec. Saving a document with an existing id replaces it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dshills/pixelstorm/internal/engine/codec"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("history not found")

// Entry describes a stored document without decoding it.
type Entry struct {
	ID       uuid.UUID
	SavedAt  time.Time
	Commands int
}

// Store wraps the SQLite database connection.
type Store struct {
	conn  *sql.DB
	codec *codec.Codec
}

// Open opens (or creates) the SQLite file at path. A nil codec means the
// default registry.
func Open(path string, c *codec.Codec) (*Store, error) {
	if c == nil {
		c = codec.New(nil)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite supports one writer.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, codec: c}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// migrate creates the schema. saved_at holds Unix nanoseconds.
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS histories (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			saved_at INTEGER NOT NULL,
			commands INTEGER NOT NULL,
			body TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_histories_saved_at ON histories(saved_at)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Put saves doc, replacing any document with the same id.
func (s *Store) Put(ctx context.Context, doc *codec.Document) error {
	body, err := s.codec.EncodeJSON(doc)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO histories (id, version, saved_at, commands, body)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			saved_at = excluded.saved_at,
			commands = excluded.commands,
			body = excluded.body`,
		doc.ID.String(), doc.Version, doc.SavedAt.UnixNano(), len(doc.Snapshot.Commands), string(body),
	)
	if err != nil {
		return fmt.Errorf("put history %s: %w", doc.ID, err)
	}
	return nil
}

// Get loads the document with the given id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*codec.Document, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT body FROM histories WHERE id = ?`, id.String())
	return s.decodeRow(row, id.String())
}

// Latest loads the most recently saved document.
func (s *Store) Latest(ctx context.Context) (*codec.Document, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT body FROM histories ORDER BY saved_at DESC, id LIMIT 1`)
	return s.decodeRow(row, "latest")
}

func (s *Store) decodeRow(row *sql.Row, what string) (*codec.Document, error) {
	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
		}
		return nil, fmt.Errorf("get history %s: %w", what, err)
	}
	doc, err := s.codec.DecodeJSON([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", what, err)
	}
	return doc, nil
}

// List returns every stored document, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, saved_at, commands FROM histories ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id       string
			savedAt  int64
			commands int
		)
		if err := rows.Scan(&id, &savedAt, &commands); err != nil {
			return nil, fmt.Errorf("list histories: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("list histories: bad id %q: %w", id, err)
		}
		entries = append(entries, Entry{
			ID:       parsed,
			SavedAt:  time.Unix(0, savedAt).UTC(),
			Commands: commands,
		})
	}
	return entries, rows.Err()
}

// Delete removes the document with the given id.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM histories WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete history %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete history %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
