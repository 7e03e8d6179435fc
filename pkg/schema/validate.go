package schema

import (
	"fmt"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/aretw0/fsmkit/pkg/registry"
)

// Validate checks the structure of a definition without resolving effects.
// Returns an *AggregateError with every problem found.
func Validate(def *Definition) error {
	var errs []error

	if def.Initial == "" {
		errs = append(errs, &ValidationError{Key: "initial", Reason: "required"})
	}
	if len(def.Transitions) == 0 {
		errs = append(errs, &ValidationError{Key: "transitions", Reason: "at least one transition is required"})
	}

	seen := make(map[domain.TransitionKey]int)
	sources := make(map[domain.StateID]bool)
	for i, t := range def.Transitions {
		for _, f := range []struct {
			name  string
			value string
		}{
			{"from", string(t.From)},
			{"action", string(t.Action)},
			{"to", string(t.To)},
		} {
			if f.value == "" {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("transitions[%d].%s", i, f.name),
					Reason: "required",
					Err:    domain.ErrInvalidEntry,
				})
			}
		}

		if first, dup := seen[t.Key()]; dup {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("transitions[%d]", i),
				Reason: fmt.Sprintf("(%s, %s) already declared at transitions[%d]", t.From, t.Action, first),
				Err:    domain.ErrDuplicateTransition,
			})
			continue
		}
		seen[t.Key()] = i
		sources[t.From] = true
	}

	if def.Initial != "" && len(def.Transitions) > 0 && !sources[def.Initial] {
		errs = append(errs, &ValidationError{
			Key:    "initial",
			Reason: fmt.Sprintf("state %q has no outgoing transition", def.Initial),
			Err:    domain.ErrUnknownInitialState,
		})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Build validates the definition, resolves every named effect in reg and
// compiles the transition table. A nil registry is only valid when no
// transition names an effect.
func Build(def *Definition, reg *registry.Registry) (*fsm.Table, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	var errs []error
	entries := make([]fsm.Entry, 0, len(def.Transitions))
	for i, t := range def.Transitions {
		entry := fsm.Entry{Transition: t}
		if t.EffectName != "" {
			if reg == nil || !reg.Has(t.EffectName) {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("transitions[%d].effect", i),
					Reason: fmt.Sprintf("effect %q is not registered", t.EffectName),
					Err:    domain.ErrUnknownEffect,
				})
				continue
			}
			entry.Effect, _ = reg.Resolve(t.EffectName)
		}
		entries = append(entries, entry)
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}

	return fsm.NewTable(entries...)
}

// Inspect compiles the table with every named effect bound to a no-op, for
// rendering and serving a table whose effects live in another program.
func Inspect(def *Definition) (*fsm.Table, error) {
	reg := registry.NewRegistry()
	reg.RegisterInert(def.EffectNames()...)
	return Build(def, reg)
}
