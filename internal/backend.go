package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Backend persists session records outside the process. The in-memory Store
// never talks to a Backend on its own; callers hydrate and persist explicitly.
type Backend interface {
	Name() string
	Load(ctx context.Context, id string) (*SessionRecord, error)
	Save(ctx context.Context, rec SessionRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// Backend names accepted by NewBackend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// NewBackend creates the backend selected by cfg.
func NewBackend(cfg *Config) (Backend, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryBackend(), nil
	case BackendFile:
		return NewFileBackend(cfg.File.Dir), nil
	case BackendSQLite:
		return NewSQLiteBackend(cfg.SQLite.Path)
	case BackendRedis:
		return NewRedisBackend(cfg.Redis, cfg.TTL)
	default:
		return nil, fmt.Errorf("unsupported backend: %s (supported: memory, file, sqlite, redis)", cfg.Backend)
	}
}

// Hydrate loads the persisted record for id into store. A missing record
// leaves a fresh session in place. It returns whether a record was found.
func Hydrate(ctx context.Context, store *Store, backend Backend, id string) (bool, error) {
	rec, err := backend.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		store.GetOrCreate(id)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	store.Restore(*rec)
	return true, nil
}

// HydrateAll loads every persisted session into store.
func HydrateAll(ctx context.Context, store *Store, backend Backend) error {
	ids, err := backend.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		rec, err := backend.Load(ctx, id)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				LogWarn("Failed to load session %s: %v", id, err)
			}
			continue
		}
		store.Restore(*rec)
	}
	return nil
}

// Persist writes the current state of session id to backend.
func Persist(ctx context.Context, store *Store, backend Backend, id string) error {
	return backend.Save(ctx, store.Snapshot(id))
}

func encodeRecord(rec SessionRecord) ([]byte, error) {
	rec.Normalize()
	return json.Marshal(rec)
}

func decodeRecord(id string, data []byte) (*SessionRecord, error) {
	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &ParseError{Source: "record", Key: id, Err: err}
	}
	if rec.ID == "" {
		rec.ID = id
	}
	rec.Normalize()
	return &rec, nil
}

// MemoryBackend keeps encoded records in process memory. It is the default
// backend and the reference implementation for tests.
type MemoryBackend struct {
	records cmap.ConcurrentMap[string, []byte]
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: cmap.New[[]byte]()}
}

func (b *MemoryBackend) Name() string { return BackendMemory }

func (b *MemoryBackend) Load(_ context.Context, id string) (*SessionRecord, error) {
	data, ok := b.records.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeRecord(id, data)
}

func (b *MemoryBackend) Save(_ context.Context, rec SessionRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return &StorageError{Backend: BackendMemory, Op: "save", Key: rec.ID, Err: err}
	}
	b.records.Set(rec.ID, data)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.records.Remove(id)
	return nil
}

func (b *MemoryBackend) List(_ context.Context) ([]string, error) {
	ids := b.records.Keys()
	slices.Sort(ids)
	return ids, nil
}

func (b *MemoryBackend) Ping(context.Context) error { return nil }

func (b *MemoryBackend) Close() error { return nil }
