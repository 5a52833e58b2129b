// Package protocol reads and writes the minimal HTTP/1.1 subset spoken by the
// control server.
//
// Requests are read in three steps that mirror the connection states:
// ReadRequestLine, ReadHeaders and ReadBody. Header keys are lower-cased and
// the last occurrence of a key wins. Bodies are read only when a
// Content-Length is present; chunked transfer is not supported.
//
// Responses are always written with Content-Length and "Connection: close",
// and always carry the cross-origin headers set by the router.
//
// # Limits
//
//   - request line: exactly three space separated parts
//   - methods: GET, POST, PUT, DELETE, HEAD, OPTIONS
//   - at most 100 header lines, each at most 8 KiB
//   - body at most 1 MiB
package protocol
