package testutil

import (
	"database/sql"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// CreateInMemoryDB creates an in-memory SQLite database with the sessions table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSessionsTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create sessions table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// InsertSessionRow writes a raw value for key, bypassing any encoding
func InsertSessionRow(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	insertSQL := "INSERT INTO sessions (key, value, updated_at) VALUES (?, ?, ?)"
	if _, err := db.Exec(insertSQL, key, value, "2024-03-01T12:00:00Z"); err != nil {
		t.Fatalf("Failed to insert session row: %v", err)
	}
}

// CreateRedis starts an in-process Redis server and returns it with a
// connected client. Both are shut down when the test ends.
func CreateRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}
