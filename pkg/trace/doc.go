// Package trace persists per-fact evaluation traces.
//
// When tracing is enabled, each evaluated batch gets a batch ID and
// every fact in it a trace row recording the raw fact, its expression,
// the outcome, and the evaluation duration. Traces answer the author
// question "why did this fact (not) appear" after the fact. A Pruner
// deletes traces past the retention window, optionally on a cron
// schedule.
//
// The store uses the CGo-free SQLite driver so tracing works in
// cross-compiled builds where the fact store's CGo driver would not.
package trace
