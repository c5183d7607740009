package coordinator

import (
	"sync"

	"github.com/veriai-sys/veriai-go/protocol"
)

// A Registry holds the agents announced to the coordinator.
// Registration is informational: sessions can be opened between
// unregistered agents, but only registered agents with a public key
// can have their submissions signature checked.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*protocol.Agent
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]*protocol.Agent)}
}

// Register adds a, replacing any earlier registration with the same id.
func (r *Registry) Register(a *protocol.Agent) {
	r.mu.Lock()
	r.agents[a.ID] = a
	r.mu.Unlock()
}

// Lookup returns the agent registered under id.
func (r *Registry) Lookup(id string) (*protocol.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	return a, ok
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
