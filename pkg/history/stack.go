package history

// Stack is a cursor-based history of snapshots. It is not safe for concurrent use.
type Stack[T any] struct {
	entries []T
	cursor  int
	clone   func(T) T
}

// Option configures a Stack.
type Option[T any] func(*Stack[T])

// WithClone sets the deep-copy function applied when values enter or leave the
// stack. Use it whenever T holds maps, slices or pointers, so that stored
// snapshots never share mutable storage with live data.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(s *Stack[T]) {
		s.clone = clone
	}
}

// New creates an empty stack.
func New[T any](opts ...Option[T]) *Stack[T] {
	s := &Stack[T]{cursor: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push records a snapshot at the cursor, dropping every entry after it.
func (s *Stack[T]) Push(v T) {
	if s.cursor < len(s.entries)-1 {
		// Clear the discarded tail so it can be collected.
		var zero T
		for i := s.cursor + 1; i < len(s.entries); i++ {
			s.entries[i] = zero
		}
		s.entries = s.entries[:s.cursor+1]
	}
	s.entries = append(s.entries, s.copy(v))
	s.cursor = len(s.entries) - 1
}

// Undo returns the entry at the cursor and moves the cursor back.
// The boolean is false when there is nothing to undo.
func (s *Stack[T]) Undo() (T, bool) {
	if s.cursor < 0 {
		var zero T
		return zero, false
	}
	v := s.entries[s.cursor]
	s.cursor--
	return s.copy(v), true
}

// Redo moves the cursor forward and returns the entry there.
// The boolean is false when there is nothing to redo.
func (s *Stack[T]) Redo() (T, bool) {
	if s.cursor >= len(s.entries)-1 {
		var zero T
		return zero, false
	}
	s.cursor++
	return s.copy(s.entries[s.cursor]), true
}

// Current returns the entry at the cursor without moving it.
func (s *Stack[T]) Current() (T, bool) {
	if s.cursor < 0 {
		var zero T
		return zero, false
	}
	return s.copy(s.entries[s.cursor]), true
}

// CanUndo reports whether Undo would return an entry.
func (s *Stack[T]) CanUndo() bool {
	return s.cursor >= 0
}

// CanRedo reports whether Redo would return an entry.
func (s *Stack[T]) CanRedo() bool {
	return s.cursor < len(s.entries)-1
}

// Cursor returns the cursor position, -1 when it is before the first entry.
func (s *Stack[T]) Cursor() int {
	return s.cursor
}

// Len returns the number of recorded entries, including those ahead of the cursor.
func (s *Stack[T]) Len() int {
	return len(s.entries)
}

// Entries returns copies of all entries in order.
func (s *Stack[T]) Entries() []T {
	out := make([]T, len(s.entries))
	for i, v := range s.entries {
		out[i] = s.copy(v)
	}
	return out
}

// Clear drops every entry.
func (s *Stack[T]) Clear() {
	s.entries = nil
	s.cursor = -1
}

func (s *Stack[T]) copy(v T) T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}
