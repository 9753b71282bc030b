package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "todonest-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	backend, err := NewSQLiteBackend(db)
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	return backend
}

// exerciseBackend runs the Get/Set/Delete contract every backend shares.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Get(ctx, "nestedTodoData"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := b.Set(ctx, "nestedTodoData", `[{"id":1,"title":"Groceries","tasks":[]}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := b.Get(ctx, "nestedTodoData")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[{"id":1,"title":"Groceries","tasks":[]}]` {
		t.Fatalf("unexpected value: %q", got)
	}

	if err := b.Set(ctx, "nestedTodoData", "[]"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = b.Get(ctx, "nestedTodoData")
	if err != nil || got != "[]" {
		t.Fatalf("expected overwritten value, got %q err=%v", got, err)
	}

	if err := b.Set(ctx, "other", "x"); err != nil {
		t.Fatalf("set other: %v", err)
	}
	if err := b.Delete(ctx, "nestedTodoData"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := b.Get(ctx, "nestedTodoData"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := b.Delete(ctx, "nestedTodoData"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting missing key, got %v", err)
	}
	if got, err := b.Get(ctx, "other"); err != nil || got != "x" {
		t.Fatalf("sibling key affected: %q err=%v", got, err)
	}
}

func TestSQLiteBackendContract(t *testing.T) {
	exerciseBackend(t, setupSQLite(t))
}

func TestSQLiteBackendStampsWrites(t *testing.T) {
	backend := setupSQLite(t)
	ctx := context.Background()
	at := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return at }

	if err := backend.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	var raw string
	if err := backend.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, "k").Scan(&raw); err != nil {
		t.Fatalf("select updated_at: %v", err)
	}
	if raw != at.Format(sqliteTimeLayout) {
		t.Fatalf("updated_at = %q, want %q", raw, at.Format(sqliteTimeLayout))
	}
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "todonest.db")
	backend, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer backend.Close()

	if err := backend.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set after open: %v", err)
	}
}

func TestNewSQLiteBackendNilDB(t *testing.T) {
	if _, err := NewSQLiteBackend(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}
