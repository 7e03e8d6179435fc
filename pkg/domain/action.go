package domain

// ActionID names an input event, e.g. "insert-money" or "select-product".
type ActionID string

// Effect is the side effect bound to a transition.
// It takes no arguments and only produces observable output; a non-nil error
// (or a panic) means the effect failed and the transition must not be applied.
// A nil Effect is the empty effect.
type Effect func() error

// Run executes the effect. A nil effect succeeds.
func (e Effect) Run() error {
	if e == nil {
		return nil
	}
	return e()
}
