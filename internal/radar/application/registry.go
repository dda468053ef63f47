package application

import (
	"sync"

	radar "radar-austral/internal/radar/domain"
)

// SourceRegistry holds the configured sources in their registration order.
// Sources can be renamed, retimed or disabled at runtime, never removed.
type SourceRegistry struct {
	mu      sync.RWMutex
	order   []string
	sources map[string]radar.Source
}

// NewSourceRegistry seeds a registry. Later entries with a duplicate id
// overwrite earlier ones without changing the order.
func NewSourceRegistry(seed []radar.Source) *SourceRegistry {
	r := &SourceRegistry{sources: make(map[string]radar.Source, len(seed))}
	for _, src := range seed {
		if src.ID == "" {
			continue
		}
		if _, ok := r.sources[src.ID]; !ok {
			r.order = append(r.order, src.ID)
		}
		r.sources[src.ID] = src
	}
	return r
}

// List returns the sources in registration order.
func (r *SourceRegistry) List() []radar.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]radar.Source, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sources[id])
	}
	return out
}

// Get returns one source by id.
func (r *SourceRegistry) Get(id string) (radar.Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[id]
	return src, ok
}

// Update applies a patch to the source with the given id.
func (r *SourceRegistry) Update(id string, patch radar.SourcePatch) (radar.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.sources[id]
	if !ok {
		return radar.Source{}, radar.ErrUnknownSource
	}
	src = patch.Apply(src)
	r.sources[id] = src
	return src, nil
}
