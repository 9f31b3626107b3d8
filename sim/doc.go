// Package sim provides the core discrete-event scheduler.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - event.go: Event and its status lifecycle (active ↔ inactive → cancelled)
//   - scheduler.go: the (time, seq)-ordered queue, peeking and bulk mutation
//   - run.go: Step and the drivers built on it (Run, RunUntilMaxTime, RunUntilGivenEvent)
//
// # Architecture
//
// The sim package holds the scheduler; supporting code lives in sub-packages:
//   - sim/trace/: per-event trace records, summaries and SQLite export
//   - sim/scenario/: YAML scenario files expanded into scheduled events
//
// Observers attach through hooks (hook.go). EventLogger and TraceHook are the
// two built-in ones.
//
// # Ordering
//
// Events pop in ascending Time; equal times pop in the order they were
// scheduled. Every read re-establishes the heap over current field values, so
// assigning Event.Time directly while the event is queued is always honored.
//
// An EventScheduler is not safe for concurrent use.
package sim
