package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pixelstorm/internal/engine/codec"
	"github.com/dshills/pixelstorm/internal/engine/history"
	"github.com/dshills/pixelstorm/internal/engine/surface"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "histories.db"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newDoc(savedAt time.Time, cmds ...history.Command) *codec.Document {
	doc := codec.NewDocument(&history.Snapshot{
		Initial:  history.NewDocument(4, 4, surface.White),
		Commands: cmds,
	})
	doc.SavedAt = savedAt
	return doc
}

func TestPutGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	doc := newDoc(time.Unix(100, 0).UTC(),
		history.NewFillRectCommand(0, 0, 2, 2, surface.Black),
		history.NewInsertLayerCommand(),
	)
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != doc.ID {
		t.Errorf("ID = %v, want %v", got.ID, doc.ID)
	}
	if len(got.Snapshot.Commands) != 2 {
		t.Errorf("len(Commands) = %d, want 2", len(got.Snapshot.Commands))
	}
}

func TestSavedAtColumn(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	doc := newDoc(time.Unix(100, 0).UTC())
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var kind string
	var savedAt int64
	row := s.conn.QueryRowContext(ctx, `SELECT typeof(saved_at), saved_at FROM histories WHERE id = ?`, doc.ID.String())
	if err := row.Scan(&kind, &savedAt); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if kind != "integer" {
		t.Errorf("typeof(saved_at) = %q, want integer", kind)
	}
	if want := doc.SavedAt.UnixNano(); savedAt != want {
		t.Errorf("saved_at = %d, want %d", savedAt, want)
	}
}

func TestPutReplaces(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	doc := newDoc(time.Unix(100, 0).UTC(), history.NewClearCommand())
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	doc.Snapshot.Commands = append(doc.Snapshot.Commands, history.NewClearCommand())
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(List()) = %d, want 1", len(entries))
	}
	if entries[0].Commands != 2 {
		t.Errorf("Commands = %d, want 2", entries[0].Commands)
	}
}

func TestLatestAndList(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() on empty store error = %v, want %v", err, ErrNotFound)
	}

	older := newDoc(time.Unix(100, 0).UTC())
	newer := newDoc(time.Unix(200, 0).UTC(), history.NewClearCommand())
	for _, doc := range []*codec.Document{newer, older} {
		if err := s.Put(ctx, doc); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != newer.ID {
		t.Errorf("Latest().ID = %v, want %v", latest.ID, newer.ID)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != newer.ID || entries[1].ID != older.ID {
		t.Errorf("List() = %+v, want newest first", entries)
	}
	if !entries[1].SavedAt.Equal(older.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", entries[1].SavedAt, older.SavedAt)
	}
}

func TestGetDeleteMissing(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := s.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	doc := newDoc(time.Unix(100, 0).UTC())
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestPutUnpersistable(t *testing.T) {
	s := openStore(t)
	if err := s.Put(context.Background(), &codec.Document{}); !errors.Is(err, codec.ErrMalformed) {
		t.Errorf("Put() error = %v, want %v", err, codec.ErrMalformed)
	}
}
