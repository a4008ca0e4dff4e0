package application

import (
	"sort"
	"sync"

	"github.com/davicafu/autostock/internal/workflow/domain"
)

// InFlightRegistry es el conjunto de acciones en curso del proceso, compartido
// por todas las superficies (HTTP, CLI).
type InFlightRegistry struct {
	mu    sync.Mutex
	items map[domain.Target]struct{}
}

func NewInFlightRegistry() *InFlightRegistry {
	return &InFlightRegistry{items: make(map[domain.Target]struct{})}
}

// TryAcquire marca el target; false si ya estaba en curso.
func (r *InFlightRegistry) TryAcquire(t domain.Target) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.items[t]; busy {
		return false
	}
	r.items[t] = struct{}{}
	return true
}

func (r *InFlightRegistry) Release(t domain.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, t)
}

func (r *InFlightRegistry) IsInFlight(t domain.Target) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, busy := r.items[t]
	return busy
}

// Snapshot lista los targets en curso, ordenados.
func (r *InFlightRegistry) Snapshot() []domain.Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Target, 0, len(r.items))
	for t := range r.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}
		return out[i].ID < out[j].ID
	})
	return out
}
