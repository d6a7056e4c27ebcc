package internal

import (
	"slices"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Store is the keyed registry of sessions. Operations never fail: an unknown
// session id is created on first reference.
type Store struct {
	sessions cmap.ConcurrentMap[string, *Session]
	ttl      time.Duration
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL enables idle eviction through EvictExpired. Zero disables it.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: cmap.New[*Session](),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the session for id, creating it if needed.
// The check and the insert happen under the same shard lock.
func (s *Store) GetOrCreate(id string) *Session {
	created := false
	sess := s.sessions.Upsert(id, nil, func(exists bool, existing, _ *Session) *Session {
		if exists && existing != nil && !existing.evicted.Load() {
			return existing
		}
		created = true
		return newSession(id, s.now())
	})
	if created {
		LogDebug("Created session %s", id)
	}
	return sess
}

// with runs fn with the session lock held and records the access time.
// A session evicted or replaced between lookup and lock is not written to.
func (s *Store) with(id string, mutate bool, fn func(sess *Session)) {
	sess := s.lock(id)
	defer sess.mu.Unlock()
	now := s.now()
	sess.lastAccess = now
	if mutate {
		sess.updatedAt = now
	}
	fn(sess)
}

// lock returns the registered session for id with its lock held.
func (s *Store) lock(id string) *Session {
	for {
		sess := s.GetOrCreate(id)
		sess.mu.Lock()
		if !sess.evicted.Load() {
			return sess
		}
		sess.mu.Unlock()
	}
}

// AppendMessage appends msg to the session's log. Earlier entries are untouched.
func (s *Store) AppendMessage(id string, msg RawMessage) {
	s.with(id, true, func(sess *Session) {
		sess.messages = append(sess.messages, msg)
	})
}

// ReadMessages returns the normalized log in the requested order.
func (s *Store) ReadMessages(id string, order MessageOrder) []Message {
	var messages []Message
	s.with(id, false, func(sess *Session) {
		messages = NormalizeMessages(sess.messages, order)
	})
	return messages
}

// RawMessages returns a copy of the stored log, oldest first.
func (s *Store) RawMessages(id string) []RawMessage {
	var raw []RawMessage
	s.with(id, false, func(sess *Session) {
		raw = append([]RawMessage{}, sess.messages...)
	})
	return raw
}

// ClearMessages empties the session's message log.
func (s *Store) ClearMessages(id string) {
	s.with(id, true, func(sess *Session) {
		sess.messages = []RawMessage{}
	})
}

// ReplaceDocument swaps the session's résumé. A nil document resets it.
func (s *Store) ReplaceDocument(id string, doc *Resume) {
	if doc == nil {
		doc = NewResume()
	} else {
		doc.Normalize()
	}
	s.with(id, true, func(sess *Session) {
		sess.resume = doc
	})
}

// ReadDocument returns the session's live résumé. Callers that mutate it
// directly must serialize themselves; UpdateDocument does that for them.
func (s *Store) ReadDocument(id string) *Resume {
	var doc *Resume
	s.with(id, false, func(sess *Session) {
		doc = sess.resume
	})
	return doc
}

// UpdateDocument runs fn against the live résumé under the session lock.
func (s *Store) UpdateDocument(id string, fn func(doc *Resume)) {
	s.with(id, true, func(sess *Session) {
		fn(sess.resume)
		sess.resume.Normalize()
	})
}

// Snapshot returns a deep copy of the session suitable for persistence.
func (s *Store) Snapshot(id string) SessionRecord {
	var rec SessionRecord
	s.with(id, false, func(sess *Session) {
		rec = sess.snapshot()
	})
	return rec
}

// Restore installs rec as the session's state, replacing any existing one.
// The record's UpdatedAt counts as its last access for TTL purposes.
func (s *Store) Restore(rec SessionRecord) {
	restored := sessionFromRecord(rec, s.now())
	var previous *Session
	s.sessions.Upsert(rec.ID, restored, func(exists bool, existing, fresh *Session) *Session {
		if exists {
			previous = existing
		}
		return fresh
	})
	if previous != nil {
		previous.evicted.Store(true)
	}
}

// Evict removes a session. It reports whether the session existed.
func (s *Store) Evict(id string) bool {
	sess, ok := s.sessions.Pop(id)
	if !ok {
		return false
	}
	if sess != nil {
		sess.evicted.Store(true)
	}
	LogDebug("Evicted session %s", id)
	return true
}

// EvictExpired removes sessions idle for longer than the configured TTL and
// returns their ids. It is a no-op without a TTL.
func (s *Store) EvictExpired() []string {
	if s.ttl <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.ttl)
	var evicted []string
	for _, id := range s.sessions.Keys() {
		removed := s.sessions.RemoveCb(id, func(_ string, sess *Session, exists bool) bool {
			if !exists || sess == nil {
				return false
			}
			sess.mu.Lock()
			defer sess.mu.Unlock()
			if !sess.lastAccess.Before(cutoff) {
				return false
			}
			sess.evicted.Store(true)
			return true
		})
		if removed {
			evicted = append(evicted, id)
		}
	}
	slices.Sort(evicted)
	if len(evicted) > 0 {
		LogInfo("Evicted %d expired session(s)", len(evicted))
	}
	return evicted
}

// Has reports whether a session exists without creating it.
func (s *Store) Has(id string) bool {
	return s.sessions.Has(id)
}

// IDs returns the ids of all sessions, sorted.
func (s *Store) IDs() []string {
	ids := s.sessions.Keys()
	slices.Sort(ids)
	return ids
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	return s.sessions.Count()
}
