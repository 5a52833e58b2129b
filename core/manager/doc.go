// Package manager owns the lifecycle of the control server.
//
// A Manager holds at most one running instance. Start validates the
// configuration, binds the first free candidate port and builds everything the
// instance owns: the listener with its worker pool, a fresh task scope, an
// outbound client and a router loaded with the registered features. Starting
// while an instance runs stops it first.
//
// # Port Selection
//
// Candidates are the configured ports, tried once each in configured order.
// The last bound port is only reported by Status. A port in use, or any
// other bind failure, moves on to the next candidate. When none can be bound
// Start returns an error wrapping ErrPortExhausted and leaves nothing behind.
//
// # Reconfiguring From a Request
//
// Handlers cannot call Reconfigure directly: it drains the worker pool that is
// running them. ReconfigureAsync validates the new configuration, returns, and
// applies it on a goroutine owned by the manager once the handler has
// answered. Wait blocks until those goroutines finish.
//
// # Stop
//
// Stop releases the instance in this order, each step independent of the
// others:
//
//  1. close the listener
//  2. drain the worker pool, then force-cancel remaining connections
//  3. close the outbound client
//  4. cancel the task scope
//  5. clear the status cache
//
// Failures are logged, never returned. Stop without a running instance does
// nothing.
package manager
