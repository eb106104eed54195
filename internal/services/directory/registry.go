// File: internal/services/directory/registry.go
package directory

import "sync"

// Registry hands out one Directory per user, created lazily on first use.
type Registry struct {
	mu     sync.Mutex
	store  Store
	logger Logger
	byUser map[uint]*Directory
}

func NewRegistry(store Store, logger Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
		byUser: make(map[uint]*Directory),
	}
}

// ForUser returns the user's directory, creating it if needed.
func (r *Registry) ForUser(userID uint) *Directory {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byUser[userID]
	if !ok {
		d = NewDirectory(r.store, userID, r.logger)
		r.byUser[userID] = d
	}
	return d
}
