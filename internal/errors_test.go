package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestTypedErrors(t *testing.T) {
	originalErr := errors.New("underlying failure")

	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "storage error with key",
			err:      &StorageError{Backend: "sqlite", Op: "load", Key: "s1", Err: originalErr},
			contains: []string{"storage error", "sqlite", "load", "s1"},
		},
		{
			name:     "storage error without key",
			err:      &StorageError{Backend: "redis", Op: "ping", Err: originalErr},
			contains: []string{"storage error [redis] ping:"},
		},
		{
			name:     "parse error",
			err:      &ParseError{Source: "record", Key: "s1", Err: originalErr},
			contains: []string{"parse error", "record", "s1"},
		},
		{
			name:     "update error",
			err:      &UpdateError{Kind: "set_skills", Err: originalErr},
			contains: []string{"update error", "set_skills"},
		},
		{
			name:     "export error",
			err:      &ExportError{Format: "tex", Path: "/output/resume.tex", Err: originalErr},
			contains: []string{"export error", "tex", "/output/resume.tex"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errorMsg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(errorMsg, want) {
					t.Errorf("Error() should contain %q, got: %q", want, errorMsg)
				}
			}
			if !strings.Contains(errorMsg, originalErr.Error()) {
				t.Errorf("Error() should contain the wrapped error, got: %q", errorMsg)
			}
			if !errors.Is(tt.err, originalErr) {
				t.Error("Unwrap() should return original error")
			}
		})
	}
}

func TestErrSessionNotFound_Wrapped(t *testing.T) {
	err := &StorageError{Backend: "file", Op: "load", Key: "x", Err: ErrSessionNotFound}
	if !errors.Is(err, ErrSessionNotFound) {
		t.Error("errors.Is(StorageError{ErrSessionNotFound}, ErrSessionNotFound) = false")
	}
}
