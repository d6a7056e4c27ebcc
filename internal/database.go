package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// OpenDatabase opens (creating if needed) a SQLite database and ensures the
// sessions table exists.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.Exec(createSessionsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return db, nil
}

// SQLiteBackend stores one JSON record per session in a key/value table.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path == "" {
		return nil, &StorageError{Backend: BackendSQLite, Op: "open", Err: errors.New("no database path configured")}
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &StorageError{Backend: BackendSQLite, Op: "open", Key: path, Err: err}
		}
	}
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Backend: BackendSQLite, Op: "open", Key: path, Err: err}
	}
	return &SQLiteBackend{db: db}, nil
}

// NewSQLiteBackendFromDB wraps an already open database.
func NewSQLiteBackendFromDB(db *sql.DB) (*SQLiteBackend, error) {
	if _, err := db.Exec(createSessionsTableSQL); err != nil {
		return nil, &StorageError{Backend: BackendSQLite, Op: "open", Err: err}
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Name() string { return BackendSQLite }

func (b *SQLiteBackend) Load(ctx context.Context, id string) (*SessionRecord, error) {
	var value string
	err := b.db.QueryRowContext(ctx, "SELECT value FROM sessions WHERE key = ?", id).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, &StorageError{Backend: BackendSQLite, Op: "load", Key: id, Err: err}
	}
	return decodeRecord(id, []byte(value))
}

func (b *SQLiteBackend) Save(ctx context.Context, rec SessionRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return &StorageError{Backend: BackendSQLite, Op: "save", Key: rec.ID, Err: err}
	}
	_, err = b.db.ExecContext(ctx,
		`INSERT INTO sessions (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		rec.ID, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &StorageError{Backend: BackendSQLite, Op: "save", Key: rec.ID, Err: err}
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, id string) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM sessions WHERE key = ?", id); err != nil {
		return &StorageError{Backend: BackendSQLite, Op: "delete", Key: id, Err: err}
	}
	return nil
}

func (b *SQLiteBackend) List(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT key FROM sessions ORDER BY key")
	if err != nil {
		return nil, &StorageError{Backend: BackendSQLite, Op: "list", Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &StorageError{Backend: BackendSQLite, Op: "list", Err: fmt.Errorf("scan failed: %w", err)}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: BackendSQLite, Op: "list", Err: fmt.Errorf("rows iteration error: %w", err)}
	}
	return ids, nil
}

func (b *SQLiteBackend) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return &StorageError{Backend: BackendSQLite, Op: "ping", Err: err}
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
