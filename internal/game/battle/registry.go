package battle

import (
	"fmt"
	"sync"
)

// Registry tracks open encounters keyed by character ID.
// All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewRegistry creates an empty Registry.
//
// Postcondition: Returns a non-nil Registry ready for use.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Start records sess as the open encounter for characterID. A previous
// session that is already over is replaced.
//
// Postcondition: Returns an error if characterID has an encounter in progress.
func (r *Registry) Start(characterID int64, sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, exists := r.sessions[characterID]; exists && !prev.Over() {
		return fmt.Errorf("character %d already has an encounter in progress", characterID)
	}
	r.sessions[characterID] = sess
	return nil
}

// Get returns the open encounter for characterID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (r *Registry) Get(characterID int64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[characterID]
	return s, ok
}

// End removes the encounter for characterID.
func (r *Registry) End(characterID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, characterID)
}

// Len returns the number of tracked encounters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
