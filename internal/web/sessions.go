package web

import (
	"sync"
	"time"

	"github.com/HartBrook/promptcraft/internal/optimize"
	"github.com/google/uuid"
)

// sessionEntry is one browser session. mu serializes actions on sess.
type sessionEntry struct {
	mu       sync.Mutex
	sess     *optimize.Session
	lastSeen time.Time
}

// Store keeps one optimize.Session per browser, keyed by a random ID.
// Sessions idle for longer than the TTL are dropped on the next access.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	defaults optimize.Settings
	entries  map[string]*sessionEntry

	// now is replaceable for tests.
	now func() time.Time
}

// NewStore creates an empty session store.
func NewStore(ttl time.Duration, defaults optimize.Settings) *Store {
	return &Store{
		ttl:      ttl,
		defaults: defaults,
		entries:  make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

// acquire returns the session for id, creating a new one (with a new ID)
// when id is empty, unknown or expired.
func (s *Store) acquire(id string) (string, *sessionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if e, ok := s.entries[id]; ok && id != "" {
		e.lastSeen = now
		return id, e
	}

	id = uuid.NewString()
	e := &sessionEntry{sess: optimize.NewSession(s.defaults), lastSeen: now}
	s.entries[id] = e
	return id, e
}

// sweep removes expired sessions. Callers hold s.mu.
func (s *Store) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, id)
		}
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
