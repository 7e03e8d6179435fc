package domain

// Transition is the declarative part of a transition table entry.
// The pair (From, Action) is the key; at most one entry may exist per key.
type Transition struct {
	From   StateID  `json:"from" yaml:"from" mapstructure:"from"`
	Action ActionID `json:"action" yaml:"action" mapstructure:"action"`
	To     StateID  `json:"to" yaml:"to" mapstructure:"to"`

	// EffectName is an optional label for the side effect, used by declarative
	// tables (to resolve it in a registry) and by introspection tools.
	EffectName string `json:"effect,omitempty" yaml:"effect,omitempty" mapstructure:"effect"`
}

// Key returns the lookup key of the transition.
func (t Transition) Key() TransitionKey {
	return TransitionKey{From: t.From, Action: t.Action}
}

// TransitionKey identifies a transition within a table.
type TransitionKey struct {
	From   StateID
	Action ActionID
}
