// Package outbound provides the pooled HTTP client handlers use for local
// network calls.
//
// A Client owns three resources, released independently by Close:
//
//   - an executor (a fixed worker pool) running asynchronous calls,
//   - the keep-alive connection pool of its transport,
//   - an optional response cache persisted through GORM.
//
// The response cache only stores successful GET responses. It is disabled
// when its database cannot be opened; the client keeps working without it.
package outbound
