package fsm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/fsmkit/pkg/domain"
)

// Entry is a transition table row: the declarative transition plus its side effect.
type Entry struct {
	domain.Transition
	Effect domain.Effect
}

// Table is an immutable mapping of (from, action) to (to, effect).
// There are no wildcard or default transitions: every valid pair is listed.
type Table struct {
	entries []Entry
	index   map[domain.TransitionKey]int
	sources map[domain.StateID]struct{}
	states  map[domain.StateID]struct{}
}

// NewTable validates the entries and builds a table.
// Every duplicated (from, action) key is reported as a *domain.DuplicateTransitionError;
// entries with empty identifiers are reported as domain.ErrInvalidEntry.
// Construction fails if any problem is found, so no table with conflicts is ever usable.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[domain.TransitionKey]int, len(entries)),
		sources: make(map[domain.StateID]struct{}),
		states:  make(map[domain.StateID]struct{}),
	}

	var errs []error
	for i, e := range entries {
		if e.From == "" || e.Action == "" || e.To == "" {
			errs = append(errs, fmt.Errorf("%w: entry %d (%q, %q -> %q) has an empty identifier",
				domain.ErrInvalidEntry, i, e.From, e.Action, e.To))
			continue
		}

		key := e.Key()
		if _, exists := t.index[key]; exists {
			errs = append(errs, &domain.DuplicateTransitionError{From: e.From, Action: e.Action})
			continue
		}

		t.index[key] = len(t.entries)
		t.entries = append(t.entries, e)
		t.sources[e.From] = struct{}{}
		t.states[e.From] = struct{}{}
		t.states[e.To] = struct{}{}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Lookup returns the entry for (from, action). The boolean is false when the
// action is not valid in that state.
func (t *Table) Lookup(from domain.StateID, action domain.ActionID) (Entry, bool) {
	i, ok := t.index[domain.TransitionKey{From: from, Action: action}]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns the entries in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Transitions returns the declarative part of every entry, in declaration order.
func (t *Table) Transitions() []domain.Transition {
	out := make([]domain.Transition, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Transition
	}
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// States returns every state named by the table (sources and targets), sorted.
func (t *Table) States() []domain.StateID {
	out := make([]domain.StateID, 0, len(t.states))
	for id := range t.states {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Actions returns the actions accepted in the given state, sorted.
func (t *Table) Actions(from domain.StateID) []domain.ActionID {
	var out []domain.ActionID
	for _, e := range t.entries {
		if e.From == from {
			out = append(out, e.Action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasState reports whether the state appears anywhere in the table.
func (t *Table) HasState(id domain.StateID) bool {
	_, ok := t.states[id]
	return ok
}

// IsSource reports whether the state has at least one outgoing transition.
func (t *Table) IsSource(id domain.StateID) bool {
	_, ok := t.sources[id]
	return ok
}
