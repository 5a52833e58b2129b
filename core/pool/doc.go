// Package pool provides a fixed-size worker pool with a bounded queue.
//
// Submit never blocks: when every worker is busy and the queue is full the
// task is rejected with ErrSaturated so callers can shed load instead of
// queueing without bound. The queue holds at least one task.
//
// Shutdown happens in two phases. Shutdown stops intake and waits for queued
// and running tasks to finish naturally. ShutdownNow cancels the context every
// task received, so cooperative tasks return early, then waits a shorter bound.
package pool
