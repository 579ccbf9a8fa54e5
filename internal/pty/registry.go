package pty

import (
	"sync"
)

// Registry holds every pair the process keeps open so a shutdown path can
// release them in one call. Pairs are keyed by Pair.ID.
type Registry struct {
	held map[string]*Pair
	mu   sync.Mutex
}

// NewRegistry returns a registry holding no pairs.
func NewRegistry() *Registry {
	return &Registry{held: make(map[string]*Pair)}
}

// DefaultRegistry holds the pairs of the running process.
var DefaultRegistry = NewRegistry()

// Track records p as held until it is released.
func (r *Registry) Track(p *Pair) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held[p.ID] = p
}

// Untrack forgets p without closing it; the caller owns its descriptors.
func (r *Registry) Untrack(p *Pair) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.held, p.ID)
}

// Held returns a snapshot of the pairs currently held.
func (r *Registry) Held() []*Pair {
	r.mu.Lock()
	defer r.mu.Unlock()
	pairs := make([]*Pair, 0, len(r.held))
	for _, p := range r.held {
		pairs = append(pairs, p)
	}
	return pairs
}

// Len returns the number of pairs held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.held)
}

// ReleaseAll closes every held pair and empties the registry. The returned
// slice holds the IDs of pairs whose Close failed.
func (r *Registry) ReleaseAll() []string {
	r.mu.Lock()
	pairs := r.held
	r.held = make(map[string]*Pair)
	r.mu.Unlock()

	var failed []string
	for id, p := range pairs {
		if err := p.Close(); err != nil {
			failed = append(failed, id)
		}
	}
	return failed
}
