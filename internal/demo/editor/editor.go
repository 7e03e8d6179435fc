// Package editor is a text editor with copy, paste and undo/redo built on the
// fsm engine and the history stack.
package editor

import (
	"context"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/aretw0/fsmkit/pkg/history"
)

const (
	EmptyClipboard  domain.StateID = "empty-clipboard"
	ClipboardLoaded domain.StateID = "clipboard-loaded"

	Type  domain.ActionID = "type"
	Copy  domain.ActionID = "copy"
	Paste domain.ActionID = "paste"
)

// Buffer is the undoable content of the editor.
type Buffer struct {
	Text string `json:"text"`
}

// Editor holds a text buffer and a clipboard.
// Typing and pasting are recorded in the history; copying is not, and the
// clipboard is left alone by undo and redo.
type Editor struct {
	machine   *fsm.Machine
	history   *history.Stack[domain.Snapshot[Buffer]]
	buf       Buffer
	clipboard string
	pending   string
}

// New creates an empty editor.
func New(opts ...fsm.Option) (*Editor, error) {
	e := &Editor{history: history.New[domain.Snapshot[Buffer]]()}

	table, err := fsm.NewBuilder().
		State(EmptyClipboard).
		On(Type, EmptyClipboard).Do("append", e.appendPending).
		On(Copy, ClipboardLoaded).Do("copy", e.copy).
		State(ClipboardLoaded).
		On(Type, ClipboardLoaded).Do("append", e.appendPending).
		On(Copy, ClipboardLoaded).Do("copy", e.copy).
		On(Paste, ClipboardLoaded).Do("paste", e.paste).
		Build()
	if err != nil {
		return nil, err
	}
	e.machine, err = fsm.New(EmptyClipboard, table, opts...)
	if err != nil {
		return nil, err
	}
	e.history.Push(e.snapshot())
	return e, nil
}

// Text returns the buffer content.
func (e *Editor) Text() string { return e.buf.Text }

// Clipboard returns the copied text.
func (e *Editor) Clipboard() string { return e.clipboard }

// State returns the clipboard state.
func (e *Editor) State() domain.StateID { return e.machine.CurrentState() }

// CanUndo reports whether there is an earlier buffer to return to.
func (e *Editor) CanUndo() bool { return e.history.Cursor() > 0 }

// CanRedo reports whether an undone change can be re-applied.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Table returns the clipboard transition table.
func (e *Editor) Table() *fsm.Table { return e.machine.Table() }

// Type appends text to the buffer.
func (e *Editor) Type(ctx context.Context, text string) error {
	e.pending = text
	defer func() { e.pending = "" }()
	return e.record(ctx, Type)
}

// Copy puts the whole buffer on the clipboard.
func (e *Editor) Copy(ctx context.Context) error {
	_, err := e.machine.DispatchContext(ctx, Copy)
	return err
}

// Paste appends the clipboard to the buffer. It is an invalid action until
// something was copied.
func (e *Editor) Paste(ctx context.Context) error {
	return e.record(ctx, Paste)
}

// Undo returns the buffer to its content before the last type or paste.
func (e *Editor) Undo(ctx context.Context) error {
	if e.history.Cursor() <= 0 {
		return domain.ErrNothingToUndo
	}
	e.history.Undo()
	snap, _ := e.history.Current()
	e.buf = snap.Payload
	return nil
}

// Redo re-applies the last undone change.
func (e *Editor) Redo(ctx context.Context) error {
	snap, ok := e.history.Redo()
	if !ok {
		return domain.ErrNothingToRedo
	}
	e.buf = snap.Payload
	return nil
}

// History returns the recorded buffers, oldest first.
func (e *Editor) History() []string {
	entries := e.history.Entries()
	out := make([]string, len(entries))
	for i, snap := range entries {
		out[i] = snap.Payload.Text
	}
	return out
}

func (e *Editor) record(ctx context.Context, action domain.ActionID) error {
	if _, err := e.machine.DispatchContext(ctx, action); err != nil {
		return err
	}
	e.history.Push(e.snapshot())
	return nil
}

func (e *Editor) snapshot() domain.Snapshot[Buffer] {
	return domain.NewSnapshot(e.machine.CurrentState(), e.buf)
}

func (e *Editor) appendPending() error {
	e.buf.Text += e.pending
	return nil
}

func (e *Editor) copy() error {
	e.clipboard = e.buf.Text
	return nil
}

func (e *Editor) paste() error {
	e.buf.Text += e.clipboard
	return nil
}
