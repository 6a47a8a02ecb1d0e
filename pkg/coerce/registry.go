package coerce

import (
	"strings"
	"sync"
)

// Registry maps type names to coercers. The zero value is unusable; construct
// through NewRegistry so the built-in scalar coercers are present. Later
// registrations under the same name win, letting callers swap individual
// coercers without rebuilding the set.
type Registry struct {
	mu       sync.RWMutex
	coercers map[string]Coercer
}

// NewRegistry constructs a registry seeded with the built-in coercers.
func NewRegistry() *Registry {
	reg := &Registry{coercers: make(map[string]Coercer)}
	reg.Register(TypeString, String)
	reg.Register(TypeInteger, Integer)
	reg.Register(TypeNumber, Number)
	reg.Register(TypeBoolean, Boolean)
	return reg
}

// Register adds or replaces the coercer for a type name. Empty names and nil
// coercers are ignored.
func (r *Registry) Register(name string, coercer Coercer) {
	if r == nil || coercer == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coercers == nil {
		r.coercers = make(map[string]Coercer)
	}
	r.coercers[trimmed] = coercer
}

// Resolve returns the coercer registered for the supplied type name.
func (r *Registry) Resolve(name string) (Coercer, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	coercer, ok := r.coercers[strings.TrimSpace(name)]
	return coercer, ok
}
