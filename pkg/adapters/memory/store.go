// Package memory provides in-process implementations of the session store
// and result archive. This is the default backend: the core guarantees no
// durability across process restarts.
package memory

import (
	"context"
	"sync"

	"github.com/counciltech/intake/pkg/domain"
)

// Store implements ports.SessionStore and ports.ResultArchive in memory.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	results  map[string]*domain.FinalResult
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		results:  make(map[string]*domain.FinalResult),
	}
}

// Save persists the session in memory. The session is deep-copied so the
// caller cannot mutate stored state through the original pointer.
func (s *Store) Save(ctx context.Context, userID string, session *domain.Session) error {
	copied := session.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = copied
	return nil
}

// Load retrieves a copy of the session from memory.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// List returns user ids with an active session.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		users = append(users, id)
	}
	return users, nil
}

// SaveResult archives the final result for a user, overwriting any
// previous one.
func (s *Store) SaveResult(ctx context.Context, result *domain.FinalResult) error {
	copied := *result
	copied.Answers = make(map[string]string, len(result.Answers))
	for k, v := range result.Answers {
		copied.Answers[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.UserID] = &copied
	return nil
}

// LoadResult retrieves the archived final result for a user.
func (s *Store) LoadResult(ctx context.Context, userID string) (*domain.FinalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[userID]
	if !ok {
		return nil, domain.ErrResultNotFound
	}

	copied := *result
	copied.Answers = make(map[string]string, len(result.Answers))
	for k, v := range result.Answers {
		copied.Answers[k] = v
	}
	return &copied, nil
}
