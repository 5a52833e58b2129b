// Package taskscope provides a cancellable group for background work owned by
// a single server instance.
//
// A Scope is created fresh for every instance and discarded after Cancel; it
// is never reused. Tasks run with the scope context and are expected to
// return when it is cancelled. A failing or panicking task is logged and does
// not affect its siblings.
//
// The group is built on golang.org/x/sync/errgroup with a concurrency limit so
// background work can never grow without bound.
package taskscope
