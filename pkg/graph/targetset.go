package graph

import "slices"

// TargetSet is an order-preserving set of targets: a slice for iteration
// order plus a membership index. Insertion order is first-add-wins, which is
// what makes closure computation and everything downstream of it
// reproducible across runs.
type TargetSet struct {
	order []*Target
	index map[string]struct{}
}

// NewTargetSet creates a set seeded with the given targets.
func NewTargetSet(targets ...*Target) *TargetSet {
	s := &TargetSet{index: make(map[string]struct{})}
	for _, t := range targets {
		s.Add(t)
	}
	return s
}

// Add inserts t, reporting whether it was not already present.
func (s *TargetSet) Add(t *Target) bool {
	key := t.Label.String()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.order = append(s.order, t)
	return true
}

// Contains reports membership.
func (s *TargetSet) Contains(t *Target) bool {
	_, ok := s.index[t.Label.String()]
	return ok
}

// Len returns the number of members.
func (s *TargetSet) Len() int { return len(s.order) }

// Slice returns the members in insertion order.
func (s *TargetSet) Slice() []*Target { return slices.Clone(s.order) }

// Labels returns the member labels in insertion order.
func (s *TargetSet) Labels() []string {
	out := make([]string, len(s.order))
	for i, t := range s.order {
		out[i] = t.Label.String()
	}
	return out
}
