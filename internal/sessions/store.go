package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps sessions in process memory. Mutating methods copy in and
// out so callers never share the stored struct.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Session
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*Session),
	}
}

// Create registers a new session in the uploaded state.
func (s *Store) Create(ctx context.Context, session Session) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.State = StateUploaded
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := session
	s.data[session.ID] = &stored
	return session, nil
}

// Get returns a session owned by the user.
func (s *Store) Get(ctx context.Context, userID, sessionID string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.data[sessionID]
	if !ok || session.UserID != userID {
		return Session{}, ErrNotFound
	}
	return *session, nil
}

// Advance moves a session forward and applies mutate under the lock.
// Backward or same-state moves fail with ErrBadTransition.
func (s *Store) Advance(ctx context.Context, userID, sessionID string, next State, mutate func(*Session)) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.data[sessionID]
	if !ok || session.UserID != userID {
		return Session{}, ErrNotFound
	}
	if !session.CanTransition(next) {
		return Session{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, session.State, next)
	}
	session.State = next
	session.UpdatedAt = time.Now().UTC()
	if mutate != nil {
		mutate(session)
	}
	return *session, nil
}

// Touch applies mutate to a session without changing its state.
func (s *Store) Touch(ctx context.Context, userID, sessionID string, mutate func(*Session)) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.data[sessionID]
	if !ok || session.UserID != userID {
		return Session{}, ErrNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	if mutate != nil {
		mutate(session)
	}
	return *session, nil
}

// CleanUp removes a session from the store. Repeated cleanup of the
// same ID is reported as not found.
func (s *Store) CleanUp(ctx context.Context, userID, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.data[sessionID]
	if !ok || session.UserID != userID {
		return ErrNotFound
	}
	delete(s.data, sessionID)
	return nil
}
