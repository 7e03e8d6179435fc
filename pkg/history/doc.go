/*
Package history implements a linear undo/redo log with a cursor.

A Stack holds snapshots in order. The cursor always points at a valid entry or
is -1 when there is nothing behind it. Undo returns the entry at the cursor and
steps back; Redo steps forward and returns the entry there. Pushing while the
cursor is not at the tail discards everything after the cursor (branch
truncation), so redo history is lost once a new snapshot is recorded after an
undo.

The stack never reaches into a machine: callers decide when to push and how to
apply a returned snapshot.
*/
package history
