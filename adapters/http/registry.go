package http

import (
	"sync"

	"github.com/google/uuid"

	"github.com/prepgrid/interview-practice/domain"
)

// sessionEntry pairs a session with its own lock so turns on one session
// are serialized even if a client double-submits.
type sessionEntry struct {
	mu   sync.Mutex
	sess *domain.Session
}

// Registry maps session ids to live sessions. In-memory only: a session
// exists exactly as long as its client keeps the id, and nothing survives a
// restart.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*sessionEntry)}
}

// Add stores a session and returns its generated id.
func (r *Registry) Add(sess *domain.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.entries[id] = &sessionEntry{sess: sess}
	r.mu.Unlock()
	return id
}

// WithSession runs fn with the session locked. Returns false when the id is
// unknown.
func (r *Registry) WithSession(id string, fn func(*domain.Session) error) (bool, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return true, fn(entry.sess)
}

// Remove drops a session from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
