// Package statuscache memoizes the system status snapshot served by the
// status endpoints.
//
// A snapshot is recomputed lazily when absent or older than the TTL.
// Concurrent misses are collapsed into a single Provider call with
// singleflight. Clear drops the snapshot and any computation that was in
// flight when it was called, so a restarted server never serves a value
// computed during a previous run.
package statuscache
