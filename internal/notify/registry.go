// Package notify fans task events out to interested users: an explicit
// in-process connection registry for attached transports, plus a Redis
// topic per user so other instances can deliver too.
package notify

import "sync"

// Registry tracks which transport connections belong to which user.
// It is process-local and empties on restart; transports must re-register
// on reconnect.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[string]struct{})}
}

// Register records a live connection for the user.
func (r *Registry) Register(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[userID]
	if !ok {
		set = make(map[string]struct{})
		r.conns[userID] = set
	}
	set[connID] = struct{}{}
}

// Deregister drops a connection; the user entry disappears with its last
// connection.
func (r *Registry) Deregister(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[userID]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.conns, userID)
	}
}

// Connections returns the user's live connection ids.
func (r *Registry) Connections(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.conns[userID]))
	for id := range r.conns[userID] {
		ids = append(ids, id)
	}
	return ids
}

// Online reports whether the user has at least one live connection.
func (r *Registry) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID]) > 0
}
