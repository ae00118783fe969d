package submission

import (
	"sync"
	"time"
)

// MaxAge bounds how long a rendered form stays submittable. Machines older
// than this are swept; a late submit against a swept machine gets a fresh
// one, so the page still works.
const MaxAge = 12 * time.Hour

// Registry tracks live form machines per gateway session. Machines are
// created when a form page renders and dropped when the form unmounts, the
// session ends, or the periodic sweep retires them; nothing is persisted.
type Registry struct {
	mu       sync.Mutex
	machines map[string]map[string]*Machine // session token -> machine ID -> machine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{machines: make(map[string]map[string]*Machine)}
}

// Create registers a fresh machine for the named form under a session.
func (r *Registry) Create(sessionToken, form string) *Machine {
	m := NewMachine(form)
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.machines[sessionToken]
	if !ok {
		byID = make(map[string]*Machine)
		r.machines[sessionToken] = byID
	}
	byID[m.ID] = m
	return m
}

// Get looks up a machine by session and instance ID.
func (r *Registry) Get(sessionToken, id string) (*Machine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.machines[sessionToken][id]
	return m, ok
}

// Drop abandons and removes a machine. In-flight results arriving after the
// drop are discarded by the machine itself.
func (r *Registry) Drop(sessionToken, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.machines[sessionToken][id]; ok {
		m.Abandon()
		delete(r.machines[sessionToken], id)
		if len(r.machines[sessionToken]) == 0 {
			delete(r.machines, sessionToken)
		}
	}
}

// DropSession abandons every machine belonging to a session. Called on
// logout and session expiry.
func (r *Registry) DropSession(sessionToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.machines[sessionToken] {
		m.Abandon()
	}
	delete(r.machines, sessionToken)
}

// SweepExpired abandons and removes machines created before the cutoff.
// Visitors who render a form and never submit would otherwise accumulate
// machines without bound. Returns the number removed.
func (r *Registry) SweepExpired(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for token, byID := range r.machines {
		for id, m := range byID {
			if m.Created.Before(before) {
				m.Abandon()
				delete(byID, id)
				removed++
			}
		}
		if len(byID) == 0 {
			delete(r.machines, token)
		}
	}
	return removed
}
