package gate

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry keeps the live gate of each device. It is bounded: an evicted gate
// loses its in-progress questionnaire and any session-only state, and the
// device starts over from what storage holds.
type Registry struct {
	mu      sync.Mutex
	gates   *lru.Cache[string, *Gate]
	factory func(deviceID string) *Gate
}

func NewRegistry(size int, factory func(deviceID string) *Gate) (*Registry, error) {
	gates, err := lru.New[string, *Gate](size)
	if err != nil {
		return nil, fmt.Errorf("create gate registry: %w", err)
	}
	return &Registry{gates: gates, factory: factory}, nil
}

// Get returns the device's gate, creating it on first use.
func (r *Registry) Get(deviceID string) *Gate {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gates.Get(deviceID); ok {
		return g
	}
	g := r.factory(deviceID)
	r.gates.Add(deviceID, g)
	return g
}

func (r *Registry) Len() int {
	return r.gates.Len()
}
