package history_test

import (
	"testing"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_Empty(t *testing.T) {
	s := history.New[string]()

	v, ok := s.Undo()
	assert.False(t, ok)
	assert.Empty(t, v)

	_, ok = s.Redo()
	assert.False(t, ok)

	_, ok = s.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, s.Cursor())
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestStack_PushAfterUndoTruncates(t *testing.T) {
	s := history.New[string]()
	s.Push("A")
	s.Push("B")
	s.Push("C")
	require.Equal(t, 2, s.Cursor())

	v, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "C", v)

	v, ok = s.Undo()
	require.True(t, ok)
	assert.Equal(t, "B", v)
	assert.Equal(t, 0, s.Cursor(), "cursor now at A")

	s.Push("D")
	assert.Equal(t, []string{"A", "D"}, s.Entries())
	assert.Equal(t, 1, s.Cursor())
	assert.False(t, s.CanRedo())
}

func TestStack_RoundTrip(t *testing.T) {
	s := history.New[domain.Snapshot[int]]()
	snap := domain.NewSnapshot[int]("ProductSelected", 3)

	s.Push(snap)

	undone, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, snap, undone)

	redone, ok := s.Redo()
	require.True(t, ok)
	assert.Equal(t, snap, redone)

	_, ok = s.Redo()
	assert.False(t, ok, "cursor already at tail")
}

func TestStack_UndoPastStart(t *testing.T) {
	s := history.New[int]()
	s.Push(1)

	_, ok := s.Undo()
	require.True(t, ok)
	_, ok = s.Undo()
	assert.False(t, ok)
	assert.Equal(t, -1, s.Cursor())

	v, ok := s.Redo()
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestStack_CursorInvariant(t *testing.T) {
	s := history.New[int]()
	ops := []func(){
		func() { s.Push(1) },
		func() { s.Undo() },
		func() { s.Undo() },
		func() { s.Redo() },
		func() { s.Redo() },
		func() { s.Push(2) },
		func() { s.Push(3) },
		func() { s.Undo() },
		func() { s.Push(4) },
		func() { s.Redo() },
	}
	for i, op := range ops {
		op()
		c := s.Cursor()
		assert.True(t, c == -1 || (c >= 0 && c < s.Len()), "step %d: cursor %d out of range for len %d", i, c, s.Len())
	}
	assert.Equal(t, []int{1, 2, 4}, s.Entries())
}

type buffer struct {
	Lines []string
}

func cloneBuffer(b buffer) buffer {
	return buffer{Lines: append([]string(nil), b.Lines...)}
}

func TestStack_CloneIsolation(t *testing.T) {
	s := history.New(history.WithClone(func(snap domain.Snapshot[buffer]) domain.Snapshot[buffer] {
		return domain.Snapshot[buffer]{State: snap.State, Payload: cloneBuffer(snap.Payload)}
	}))

	live := buffer{Lines: []string{"hola"}}
	s.Push(domain.NewSnapshot[buffer]("editing", live))

	live.Lines[0] = "mutated after push"

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "hola", got.Payload.Lines[0])

	got.Payload.Lines[0] = "mutated after read"
	again, _ := s.Undo()
	assert.Equal(t, "hola", again.Payload.Lines[0])
}

func TestStack_Clear(t *testing.T) {
	s := history.New[int]()
	s.Push(1)
	s.Push(2)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, -1, s.Cursor())
	_, ok := s.Undo()
	assert.False(t, ok)
}
