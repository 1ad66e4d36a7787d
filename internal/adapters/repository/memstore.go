package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orestat/orestat/internal/domain/dataset"
	"github.com/orestat/orestat/internal/domain/mapping"
	"github.com/orestat/orestat/internal/domain/stats"
	"github.com/orestat/orestat/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMaxSessions = 256
	defaultTTL         = 2 * time.Hour
)

// MemStore is the in-memory Store implementation. Session count is bounded;
// creating a session beyond the cap evicts the least recently used one, and
// sessions idle past the TTL are dropped opportunistically.
type MemStore struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	now         func() time.Time
}

// NewMemStore creates an in-memory session store with configuration options.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		sessions:    make(map[string]*Session),
		maxSessions: defaultMaxSessions,
		ttl:         defaultTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a new empty session and returns its snapshot.
func (s *MemStore) Create(_ context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()

	now := s.now()
	sess := &Session{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		LastAccess: now,
	}
	s.sessions[sess.ID] = sess

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(len(s.sessions))
	return *sess, nil
}

// Get returns a snapshot of the session.
func (s *MemStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	sess.LastAccess = s.now()
	return *sess, nil
}

// SetDataset replaces one slot's dataset and clears the derived records.
func (s *MemStore) SetDataset(_ context.Context, id string, kind Kind, ds *dataset.Dataset) error {
	if ds == nil {
		return ErrNilDataset
	}
	return s.update(id, func(sess *Session) {
		*sess.Slot(kind) = Slot{Dataset: ds}
	})
}

// SetMapping records the applied column mapping for one slot.
func (s *MemStore) SetMapping(_ context.Context, id string, kind Kind, m mapping.Mapping) error {
	return s.update(id, func(sess *Session) {
		sess.Slot(kind).Mapping = &m
	})
}

// SetSummary records the computed statistics for one slot.
func (s *MemStore) SetSummary(_ context.Context, id string, kind Kind, sum stats.Summary) error {
	return s.update(id, func(sess *Session) {
		sess.Slot(kind).Summary = &sum
	})
}

// Delete removes a session.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	metrics.UpdateActiveSessions(len(s.sessions))
	return nil
}

// Count returns the number of live sessions.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemStore) update(id string, fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	fn(sess)
	sess.LastAccess = s.now()
	return nil
}

// evictLocked drops expired sessions, then the least recently used session
// if the store is still at capacity. Callers must hold the write lock.
func (s *MemStore) evictLocked() {
	now := s.now()
	if s.ttl > 0 {
		for id, sess := range s.sessions {
			if now.Sub(sess.LastAccess) > s.ttl {
				delete(s.sessions, id)
				metrics.RecordSessionEvicted()
			}
		}
	}
	for len(s.sessions) >= s.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.LastAccess.Before(oldest) {
				oldestID = id
				oldest = sess.LastAccess
			}
		}
		delete(s.sessions, oldestID)
		metrics.RecordSessionEvicted()
	}
	metrics.UpdateActiveSessions(len(s.sessions))
}
