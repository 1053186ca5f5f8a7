package spec

import (
	"fmt"
	"sync"
)

// Registry collects the specifications of a unit and the back-references
// from items to them. Safe for concurrent use by item workers.
type Registry struct {
	mu     sync.Mutex
	specs  []*Specification
	byID   map[SpecificationID]int
	byItem map[string][]int // item -> indices into specs, declaration order
}

func NewRegistry() *Registry {
	return &Registry{
		specs:  make([]*Specification, 0),
		byID:   make(map[SpecificationID]int),
		byItem: make(map[string][]int),
	}
}

// Add registers specs in order and appends their ids to the
// back-references of their items. Either all of them are registered or,
// on a reused id, none is.
func (r *Registry) Add(specs ...*Specification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[SpecificationID]struct{}, len(specs))
	for _, s := range specs {
		if _, dup := r.byID[s.ID]; dup {
			return violation("specification id %s registered twice", s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return violation("specification id %s registered twice", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	for _, s := range specs {
		idx := len(r.specs)
		r.specs = append(r.specs, s)
		r.byID[s.ID] = idx
		r.byItem[s.Item] = append(r.byItem[s.Item], idx)
	}
	return nil
}

// Lookup returns the specification with the given id.
func (r *Registry) Lookup(id SpecificationID) (*Specification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.specs[idx], true
}

// BackRefs returns the ids attached to item in declaration order.
func (r *Registry) BackRefs(item string) []SpecificationID {
	r.mu.Lock()
	defer r.mu.Unlock()
	idxs := r.byItem[item]
	out := make([]SpecificationID, len(idxs))
	for i, idx := range idxs {
		out[i] = r.specs[idx].ID
	}
	return out
}

// ForItem returns the specifications of item in declaration order.
func (r *Registry) ForItem(item string) []*Specification {
	r.mu.Lock()
	defer r.mu.Unlock()
	idxs := r.byItem[item]
	out := make([]*Specification, len(idxs))
	for i, idx := range idxs {
		out[i] = r.specs[idx]
	}
	return out
}

// All returns every registered specification in registration order.
func (r *Registry) All() []*Specification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Specification(nil), r.specs...)
}

// Len returns the number of registered specifications.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.specs)
}

// Resolve finds the specification and leaf an expr_id marker value names.
func (r *Registry) Resolve(thunkName string) (*Specification, Expression, error) {
	for _, s := range r.All() {
		for _, e := range s.Expressions() {
			if ThunkName(s.ID, e.ExprID) == thunkName {
				return s, e, nil
			}
		}
	}
	return nil, Expression{}, fmt.Errorf("no expression named %q", thunkName)
}
