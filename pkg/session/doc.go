/*
Package session implements session management for state machines.

A Manager hosts many named machines built from one transition table. It is the
external mutual exclusion that a Machine itself does not provide: every
operation on a session runs under that session's lock (and, optionally, a
distributed lock), so only one dispatch is in flight per machine.

Each session keeps an in-memory undo/redo history of the states it visited.
Undo and redo re-position the machine without running effects again. Only the
current position (a domain.Checkpoint) is persisted, so a session can resume at
its last state after a restart; its history starts over from there.
*/
package session
