package internal

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by backends when no record exists for an id.
var ErrSessionNotFound = errors.New("session not found")

// StorageError represents errors talking to a persistence backend
type StorageError struct {
	Backend string // "sqlite", "redis", "file", "memory"
	Op      string // "open", "load", "save", "delete", "list", "ping"
	Key     string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage error [%s] %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("storage error [%s] %s %s: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing data
type ParseError struct {
	Source string // "record", "update", "config", "resume"
	Key    string // session id or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UpdateError represents a structured update that could not be applied
type UpdateError struct {
	Kind string
	Err  error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update error [%s]: %v", e.Kind, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
