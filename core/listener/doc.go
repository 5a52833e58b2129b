// Package listener runs the accept loop and the per-connection protocol
// state machine of the control server.
//
// # Accept Loop
//
// One goroutine blocks on Accept and submits each connection to a bounded
// worker pool. A connection that cannot be queued, or that exceeds the
// optional accept rate, is torn down immediately. Closing the listener ends
// the loop; other accept errors are retried with a growing backoff.
//
// # Connection States
//
//	ReadingRequestLine -> ReadingHeaders -> ReadingBody -> Routing -> WritingResponse -> Closing
//
// The read deadline is set once at acceptance and covers the whole request.
// A timeout goes straight to Closing without a response. A malformed request
// gets a best-effort 400 (413 for an oversized body). A panic while routing
// gets a best-effort 500.
//
// # Teardown
//
// Closing always runs, exactly once, in this order:
//
//  1. shut down the write half
//  2. shut down the read half
//  3. close the writer view
//  4. close the reader view
//  5. close the socket
//
// Every step runs even if an earlier one fails.
package listener
