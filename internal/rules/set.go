package rules

import (
	"fmt"
)

// Set is an ordered registry of rules keyed by ID.
type Set struct {
	rules map[string]Rule
	order []string
}

// NewSet returns an empty registry.
func NewSet() *Set {
	return &Set{rules: make(map[string]Rule)}
}

// Register adds a rule to the set. Registering a second rule with the same
// ID is an error and leaves the set unchanged.
func (s *Set) Register(r Rule) error {
	if r == nil {
		return fmt.Errorf("registering nil rule")
	}
	id := r.ID()
	if id == "" {
		return fmt.Errorf("registering rule with empty ID")
	}
	if _, exists := s.rules[id]; exists {
		return fmt.Errorf("rule %q already registered", id)
	}
	s.rules[id] = r
	s.order = append(s.order, id)
	return nil
}

// Get returns the rule registered under id.
func (s *Set) Get(id string) (Rule, bool) {
	r, ok := s.rules[id]
	return r, ok
}

// Rules returns all rules in registration order.
func (s *Set) Rules() []Rule {
	out := make([]Rule, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rules[id])
	}
	return out
}

// IDs returns all rule IDs in registration order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of registered rules.
func (s *Set) Len() int {
	return len(s.order)
}

// DefaultSet returns a set with every built-in rule registered. It panics
// only if the built-in rule IDs ever collide, which is a programming error.
func DefaultSet() *Set {
	s := NewSet()
	for _, r := range []Rule{
		NewAsyncErrorHandling(),
		NewForEachKey(),
		NewNoImplicitAny(),
		NewSingleResponsibility(),
		NewAPIResponseValidation(),
		NewHardcodedSecret(),
	} {
		if err := s.Register(r); err != nil {
			panic(err)
		}
	}
	return s
}
