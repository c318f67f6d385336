package templates

import (
	"slices"

	"github.com/OFFIS-RIT/constellation/backend/pkg/common"
)

// Constructor builds a fresh copy of a template graph. Callers may mutate
// the result.
type Constructor func() *common.Graph

// Registry maps normalised topic keys to template constructors. It is
// immutable after construction and safe for concurrent use.
type Registry struct {
	constructors map[string]Constructor
	keys         []string
}

// NewRegistry creates a Registry from constructors. The map is copied;
// nil constructors are skipped.
func NewRegistry(constructors map[string]Constructor) *Registry {
	r := &Registry{constructors: make(map[string]Constructor, len(constructors))}
	for key, c := range constructors {
		if c == nil {
			continue
		}
		r.constructors[key] = c
		r.keys = append(r.keys, key)
	}
	slices.Sort(r.keys)
	return r
}

// Lookup returns a new graph for key. key must already be normalised.
func (r *Registry) Lookup(key string) (*common.Graph, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.constructors[key]
	if !ok {
		return nil, false
	}
	return c(), true
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// Len reports the number of registered templates.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}
