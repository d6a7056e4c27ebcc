package internal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FileBackend stores each session as session_<id>.json in a directory and
// keeps a YAML index of all sessions next to them.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// SessionIndexEntry represents a session entry in the index
type SessionIndexEntry struct {
	ID           string    `yaml:"id"`
	MessageCount int       `yaml:"message_count"`
	Sections     []string  `yaml:"sections,omitempty"`
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// SessionIndex represents the YAML index of all sessions
type SessionIndex struct {
	Version  string              `yaml:"version"`
	Sessions []SessionIndexEntry `yaml:"sessions"`
}

const fileIndexVersion = "1.0"

// NewFileBackend creates a FileBackend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// EnsureDir ensures the storage directory exists
func (b *FileBackend) EnsureDir() error {
	return os.MkdirAll(b.dir, 0755)
}

// GetIndexPath returns the path to the session index YAML file
func (b *FileBackend) GetIndexPath() string {
	return filepath.Join(b.dir, "sessions.yaml")
}

// GetSessionPath returns the path to a session's file. Ids are path-escaped
// so arbitrary session keys cannot leave the directory.
func (b *FileBackend) GetSessionPath(sessionID string) string {
	return filepath.Join(b.dir, fmt.Sprintf("session_%s.json", url.PathEscape(sessionID)))
}

// LoadIndex loads the session index. A missing index is an empty one.
func (b *FileBackend) LoadIndex() (*SessionIndex, error) {
	data, err := os.ReadFile(b.GetIndexPath())
	if errors.Is(err, os.ErrNotExist) {
		return &SessionIndex{Version: fileIndexVersion, Sessions: []SessionIndexEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var index SessionIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, &ParseError{Source: "index", Key: b.GetIndexPath(), Err: err}
	}
	return &index, nil
}

// SaveIndex saves the session index
func (b *FileBackend) SaveIndex(index *SessionIndex) error {
	if err := b.EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return os.WriteFile(b.GetIndexPath(), data, 0644)
}

func (b *FileBackend) Name() string { return BackendFile }

func (b *FileBackend) Load(_ context.Context, id string) (*SessionRecord, error) {
	data, err := os.ReadFile(b.GetSessionPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, &StorageError{Backend: BackendFile, Op: "load", Key: id, Err: err}
	}
	return decodeRecord(id, data)
}

// Save writes the session file and updates its index entry.
func (b *FileBackend) Save(_ context.Context, rec SessionRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.EnsureDir(); err != nil {
		return &StorageError{Backend: BackendFile, Op: "save", Key: rec.ID, Err: err}
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return &StorageError{Backend: BackendFile, Op: "save", Key: rec.ID, Err: err}
	}
	if err := os.WriteFile(b.GetSessionPath(rec.ID), data, 0644); err != nil {
		return &StorageError{Backend: BackendFile, Op: "save", Key: rec.ID, Err: err}
	}

	index, err := b.LoadIndex()
	if err != nil {
		LogWarn("Rebuilding unreadable index: %v", err)
		index = &SessionIndex{Version: fileIndexVersion}
	}
	rec.Normalize()
	entry := SessionIndexEntry{
		ID:           rec.ID,
		MessageCount: len(rec.Messages),
		Sections:     rec.Resume.FilledSections(),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if i := slices.IndexFunc(index.Sessions, func(e SessionIndexEntry) bool { return e.ID == rec.ID }); i >= 0 {
		index.Sessions[i] = entry
	} else {
		index.Sessions = append(index.Sessions, entry)
	}
	if err := b.SaveIndex(index); err != nil {
		return &StorageError{Backend: BackendFile, Op: "save", Key: b.GetIndexPath(), Err: err}
	}
	return nil
}

func (b *FileBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(b.GetSessionPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Backend: BackendFile, Op: "delete", Key: id, Err: err}
	}
	index, err := b.LoadIndex()
	if err != nil {
		return &StorageError{Backend: BackendFile, Op: "delete", Key: id, Err: err}
	}
	index.Sessions = slices.DeleteFunc(index.Sessions, func(e SessionIndexEntry) bool { return e.ID == id })
	if err := b.SaveIndex(index); err != nil {
		return &StorageError{Backend: BackendFile, Op: "delete", Key: id, Err: err}
	}
	return nil
}

func (b *FileBackend) List(_ context.Context) ([]string, error) {
	index, err := b.LoadIndex()
	if err != nil {
		return nil, &StorageError{Backend: BackendFile, Op: "list", Err: err}
	}
	ids := make([]string, 0, len(index.Sessions))
	for _, e := range index.Sessions {
		ids = append(ids, e.ID)
	}
	slices.Sort(ids)
	return ids, nil
}

func (b *FileBackend) Ping(context.Context) error {
	if err := b.EnsureDir(); err != nil {
		return &StorageError{Backend: BackendFile, Op: "ping", Key: b.dir, Err: err}
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }

// Clear removes every session file and the index.
func (b *FileBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	index, err := b.LoadIndex()
	if err == nil {
		for _, entry := range index.Sessions {
			_ = os.Remove(b.GetSessionPath(entry.ID))
		}
	}
	if err := os.Remove(b.GetIndexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
