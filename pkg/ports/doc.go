/*
Package ports defines the driven ports (interfaces) of the fsmkit engine.

These interfaces decouple session orchestration from external implementations,
allowing the same code to run against memory or Redis backends.

# Key Interfaces

  - CheckpointStore: persists the position (Checkpoint) of named sessions.
  - DistributedLocker: provides distributed locking for concurrent session access.
*/
package ports
