/*
Package observability provides lifecycle hooks for monitoring machines.

LoggingHooks writes every event to a slog.Logger. Metrics records transitions,
rejections and effect outcomes as Prometheus collectors. Combine merges several
hook sets so both can be attached to the same machine or session manager.
*/
package observability
