package fsm

import (
	"fmt"

	"github.com/aretw0/fsmkit/pkg/domain"
)

// Builder provides a fluent API for declaring a transition table.
type Builder struct {
	entries []Entry
	errs    []error
}

// NewBuilder creates an empty table builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// State starts declaring the transitions leaving the given state.
func (b *Builder) State(id domain.StateID) *StateBuilder {
	return &StateBuilder{id: id, builder: b, last: -1}
}

// Build compiles the declared transitions into a Table.
func (b *Builder) Build() (*Table, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	return NewTable(b.entries...)
}

// StateBuilder configures the transitions of one source state.
type StateBuilder struct {
	id      domain.StateID
	builder *Builder
	last    int
}

// On adds a transition from this state to target when action is dispatched.
func (s *StateBuilder) On(action domain.ActionID, target domain.StateID) *StateBuilder {
	s.builder.entries = append(s.builder.entries, Entry{
		Transition: domain.Transition{From: s.id, Action: action, To: target},
	})
	s.last = len(s.builder.entries) - 1
	return s
}

// Do binds a named side effect to the transition declared by the previous On call.
func (s *StateBuilder) Do(name string, effect domain.Effect) *StateBuilder {
	if s.last < 0 {
		s.builder.errs = append(s.builder.errs,
			fmt.Errorf("%w: effect %q declared on state %q before any transition", domain.ErrInvalidEntry, name, s.id))
		return s
	}
	s.builder.entries[s.last].EffectName = name
	s.builder.entries[s.last].Effect = effect
	return s
}

// State switches to declaring another source state.
func (s *StateBuilder) State(id domain.StateID) *StateBuilder {
	return s.builder.State(id)
}

// Build compiles the table; shorthand for the parent builder's Build.
func (s *StateBuilder) Build() (*Table, error) {
	return s.builder.Build()
}
