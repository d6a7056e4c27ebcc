package internal

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Session owns one message log and one résumé. All access goes through the
// session's own lock, so unrelated sessions never contend.
type Session struct {
	ID string

	// evicted is set once the session has left the store. Writers that
	// locked it afterwards retry against the session now registered.
	evicted atomic.Bool

	mu         sync.Mutex
	messages   []RawMessage
	resume     *Resume
	createdAt  time.Time
	updatedAt  time.Time
	lastAccess time.Time
}

// SessionRecord is the persisted form of a session: one entry per session id.
type SessionRecord struct {
	ID        string       `json:"id" yaml:"id"`
	Messages  []RawMessage `json:"messages" yaml:"messages"`
	Resume    *Resume      `json:"resume" yaml:"resume"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" yaml:"updated_at"`
}

// Normalize fills defaults so a decoded record obeys the same invariants
// as a freshly created session.
func (r *SessionRecord) Normalize() {
	if r.Messages == nil {
		r.Messages = []RawMessage{}
	}
	if r.Resume == nil {
		r.Resume = NewResume()
	} else {
		r.Resume.Normalize()
	}
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		messages:   []RawMessage{},
		resume:     NewResume(),
		createdAt:  now,
		updatedAt:  now,
		lastAccess: now,
	}
}

func sessionFromRecord(rec SessionRecord, now time.Time) *Session {
	rec.Normalize()
	s := &Session{
		ID:         rec.ID,
		messages:   slices.Clone(rec.Messages),
		resume:     rec.Resume.Clone(),
		createdAt:  rec.CreatedAt,
		updatedAt:  rec.UpdatedAt,
		lastAccess: now,
	}
	if s.createdAt.IsZero() {
		s.createdAt = now
	}
	if s.updatedAt.IsZero() {
		s.updatedAt = s.createdAt
	}
	// A restored session was last active when it was last written.
	s.lastAccess = s.updatedAt
	return s
}

// snapshot must be called with s.mu held.
func (s *Session) snapshot() SessionRecord {
	return SessionRecord{
		ID:        s.ID,
		Messages:  append([]RawMessage{}, s.messages...),
		Resume:    s.resume.Clone(),
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}
