// Package middleware contains router middleware for the control server.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - RayID: Ensures every request has a Request ID (RayID) and echoes it in
//     the X-Ray-ID response header for tracing.
//   - Logging: Logs every request with its outcome and duration.
//   - Recover: Turns a handler panic into a generic 500 response.
//
// Authentication is not a middleware: the router evaluates the key prefix
// before dispatch.
package middleware
