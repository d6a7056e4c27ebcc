package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/resume-session/testutil"
)

// exerciseBackend runs the behaviour every Backend must share.
func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, backend.Ping(ctx))

	_, err := backend.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	ids, err := backend.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	rec := *CreateTestRecord("b-session")
	require.NoError(t, backend.Save(ctx, rec))
	require.NoError(t, backend.Save(ctx, *CreateTestRecordWithMessages("a-session", nil)))

	loaded, err := backend.Load(ctx, "b-session")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, rec.Messages, loaded.Messages)
	assert.Equal(t, rec.Resume, loaded.Resume)
	assert.True(t, rec.CreatedAt.Equal(loaded.CreatedAt))

	empty, err := backend.Load(ctx, "a-session")
	require.NoError(t, err)
	assert.NotNil(t, empty.Messages)
	assert.True(t, empty.Resume.IsEmpty())

	ids, err = backend.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-session", "b-session"}, ids)

	// Saving again overwrites.
	rec.Resume.SetSummary("rewritten")
	require.NoError(t, backend.Save(ctx, rec))
	loaded, err = backend.Load(ctx, "b-session")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", loaded.Resume.Summary)

	require.NoError(t, backend.Delete(ctx, "b-session"))
	require.NoError(t, backend.Delete(ctx, "b-session"))
	_, err = backend.Load(ctx, "b-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	ids, err = backend.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-session"}, ids)
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	exerciseBackend(t, NewFileBackend(filepath.Join(t.TempDir(), "sessions")))
}

func TestSQLiteBackend(t *testing.T) {
	backend, err := NewSQLiteBackendFromDB(testutil.CreateInMemoryDB(t))
	require.NoError(t, err)
	exerciseBackend(t, backend)
}

func TestSQLiteBackend_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	backend, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, backend.Save(context.Background(), *CreateTestRecord("persisted")))
	require.NoError(t, backend.Close())

	reopened, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer reopened.Close()
	rec, err := reopened.Load(context.Background(), "persisted")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", rec.Resume.Personal.Name)
}

func TestSQLiteBackend_CorruptRow(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertSessionRow(t, db, "broken", "{not json")
	backend, err := NewSQLiteBackendFromDB(db)
	require.NoError(t, err)

	_, err = backend.Load(context.Background(), "broken")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "error = %v", err)
	assert.Equal(t, "broken", parseErr.Key)
}

func TestSQLiteBackend_NoPath(t *testing.T) {
	_, err := NewSQLiteBackend("")
	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
}

func TestRedisBackend(t *testing.T) {
	_, client := testutil.CreateRedis(t)
	exerciseBackend(t, NewRedisBackendFromClient(client, "", 0))
}

func TestRedisBackend_TTL(t *testing.T) {
	srv, client := testutil.CreateRedis(t)
	backend := NewRedisBackendFromClient(client, "ttl:", time.Minute)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, *CreateTestRecord("short-lived")))
	assert.True(t, srv.Exists("ttl:session:short-lived"))
	assert.Equal(t, time.Minute, srv.TTL("ttl:session:short-lived"))

	srv.FastForward(2 * time.Minute)

	_, err := backend.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	ids, err := backend.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	members, err := srv.Members("ttl:index")
	if err == nil {
		assert.Empty(t, members)
	}
}

func TestRedisBackend_FromConfig(t *testing.T) {
	srv, _ := testutil.CreateRedis(t)

	backend, err := NewRedisBackend(RedisConfig{Addr: "redis://" + srv.Addr() + "/0"}, 0)
	require.NoError(t, err)
	defer backend.Close()
	require.NoError(t, backend.Ping(context.Background()))

	backend, err = NewRedisBackend(RedisConfig{Addr: srv.Addr()}, 0)
	require.NoError(t, err)
	defer backend.Close()
	require.NoError(t, backend.Ping(context.Background()))

	_, err = NewRedisBackend(RedisConfig{Addr: "redis://host:notaport"}, 0)
	assert.Error(t, err)
}

func TestFileBackend_Index(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	backend := NewFileBackend(dir)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, *CreateTestRecord("with/slash")))

	_, err := os.Stat(backend.GetSessionPath("with/slash"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(backend.GetSessionPath("with/slash")))

	index, err := backend.LoadIndex()
	require.NoError(t, err)
	require.Len(t, index.Sessions, 1)
	entry := index.Sessions[0]
	assert.Equal(t, "with/slash", entry.ID)
	assert.Equal(t, 2, entry.MessageCount)
	assert.Equal(t, []string{SectionPersonal, SectionSummary, SectionEducation, SectionSkills, SectionExperience, SectionProjects}, entry.Sections)

	require.NoError(t, backend.Clear())
	ids, err := backend.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestNewBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		backend  string
		wantName string
		wantErr  bool
	}{
		{name: "memory", backend: BackendMemory, wantName: BackendMemory},
		{name: "default is memory", backend: "", wantName: BackendMemory},
		{name: "file", backend: BackendFile, wantName: BackendFile},
		{name: "sqlite", backend: BackendSQLite, wantName: BackendSQLite},
		{name: "unknown", backend: "postgres", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Backend = tt.backend
			cfg.File.Dir = filepath.Join(dir, "files")
			cfg.SQLite.Path = filepath.Join(dir, tt.name+".db")

			backend, err := NewBackend(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer backend.Close()
			assert.Equal(t, tt.wantName, backend.Name())
		})
	}
}

func TestHydrateAndPersist(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	store := NewStore()
	store.UpdateDocument("s1", func(doc *Resume) {
		doc.SetPersonalInfo(PersonalInfo{Name: "Ada Lovelace"})
	})
	store.AppendMessage("s1", RawMessage{Type: "human", Content: "hello"})
	require.NoError(t, Persist(ctx, store, backend, "s1"))

	fresh := NewStore()
	found, err := Hydrate(ctx, fresh, backend, "s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ada Lovelace", fresh.ReadDocument("s1").Personal.Name)
	assert.Len(t, fresh.ReadMessages("s1", Chronological), 1)

	found, err = Hydrate(ctx, fresh, backend, "unknown")
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, fresh.Has("unknown"))

	require.NoError(t, Persist(ctx, store, backend, "s2"))
	all := NewStore()
	require.NoError(t, HydrateAll(ctx, all, backend))
	assert.Equal(t, []string{"s1", "s2"}, all.IDs())
}
