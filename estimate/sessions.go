package estimate

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions is the in-memory registry of open estimates. Nothing is persisted:
// a restart discards every session.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create opens a new empty session under a fresh uuid
func (r *Sessions) Create() *Session {
	s := NewSession(uuid.NewString(), r.now())

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with the given id
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete closes a session; unknown ids are ignored
func (r *Sessions) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
