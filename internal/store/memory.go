package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when a session has no committed view.
	ErrNotFound = errors.New("no dashboard view for session")
)

// session holds the latest sequence id issued for a dashboard and the last
// view committed to it.
type session struct {
	issued    uint64
	view      weather.DashboardView
	hasView   bool
	touchedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*session

	// retention configuration
	maxSessions int           // max number of sessions kept
	maxAge      time.Duration // sessions idle longer than this are dropped

	// seq is the last sequence id issued by any session. Ids are never
	// reused, including for a session re-created after eviction.
	seq uint64

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxSessions or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxSessions int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]*session),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		now:         time.Now,
	}
}

// Begin issues the next sequence id for key. Ids increase across the whole
// store, so an id issued before key was evicted can never match a later one.
func (s *MemoryStore) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[key]
	if !ok {
		s.evictLocked()
		sess = &session{}
		s.data[key] = sess
	}
	s.seq++
	sess.issued = s.seq
	sess.touchedAt = s.now()
	return sess.issued
}

// Commit stores view for key when seq is the latest id issued for it. An
// older seq means a newer location change is in flight or already landed,
// and the view is dropped.
func (s *MemoryStore) Commit(key string, seq uint64, view weather.DashboardView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[key]
	if !ok || seq != sess.issued {
		return false
	}
	sess.view = view
	sess.hasView = true
	sess.touchedAt = s.now()
	return true
}

// Latest returns the last committed view for key.
func (s *MemoryStore) Latest(key string) (weather.DashboardView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.data[key]
	if !ok || !sess.hasView {
		return weather.DashboardView{}, ErrNotFound
	}
	return sess.view, nil
}

// Len returns the number of tracked sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// evictLocked enforces retention before a new session is added.
func (s *MemoryStore) evictLocked() {
	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		for key, sess := range s.data {
			if sess.touchedAt.Before(cutoff) {
				delete(s.data, key)
			}
		}
	}

	// Enforce retention by count, dropping the least recently touched.
	for s.maxSessions > 0 && len(s.data) >= s.maxSessions {
		var oldestKey string
		var oldest time.Time
		for key, sess := range s.data {
			if oldestKey == "" || sess.touchedAt.Before(oldest) {
				oldestKey = key
				oldest = sess.touchedAt
			}
		}
		delete(s.data, oldestKey)
	}
}

var _ weather.Store = (*MemoryStore)(nil)
