package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/terracaughta/geoguess/internal/game"
)

// Session is one player's in-memory state: the cross-round aggregate and
// the current round, if any. The mutex serializes all round operations for
// the session; sessions share nothing with each other.
type Session struct {
	ID    string
	State *game.Session
	Round *game.Round

	mu sync.Mutex
}

// Registry holds every live session, keyed by ID. State lives only for the
// server's lifetime; there is deliberately no persistence behind it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Create(playerName string) *Session {
	s := &Session{
		ID:    uuid.NewString(),
		State: game.NewSession(playerName),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Remove deletes a session and returns it for a final summary.
func (r *Registry) Remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
