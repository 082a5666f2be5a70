package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// Session holds one parsed-but-unconfirmed upload. Exclusive to the request
// that created it until confirmed or expired; nothing durable exists yet.
type Session struct {
	ID          string
	ContractID  string
	FileName    string
	PeriodLabel string
	PeriodEnd   time.Time
	Grid        *model.RawGrid
	Table       *model.DetectedTable
	Suggested   []model.ResolvedColumn
	CreatedAt   time.Time
}

// Store is an arena of upload sessions keyed by opaque id with TTL eviction.
type Store struct {
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*Session
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a session store and starts its eviction janitor.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Create registers a new session and returns it with a fresh id.
func (s *Store) Create(sess *Session) *Session {
	sess.ID = uuid.New().String()
	sess.CreatedAt = time.Now()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a live session or ErrSessionExpired.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Since(sess.CreatedAt) > s.ttl {
		return nil, model.ErrSessionExpired
	}
	return sess, nil
}

// Delete discards a session. Safe to call for unknown ids.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Count returns the number of sessions currently held, expired or not.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the eviction janitor.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) janitor() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *Store) evictExpired() {
	now := time.Now()
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
}
