// Package router maps requests to handlers and enforces path-prefix API key
// authentication.
//
// # Authentication
//
// When auth is enabled the first path segment must equal the configured key.
// The segment is stripped before route lookup, so handlers always see
// "/api/...". A mismatch yields 401 whatever the rest of the path is.
//
// Exactly two paths bypass the check, both listed in PublicPaths:
//
//   - "/" renders a guidance page explaining how to obtain a key
//   - "/favicon.ico" serves a static icon
//
// OPTIONS requests are answered with 204 before authentication so browser
// preflights never need the key.
//
// # Routes
//
// Features register handlers with Handle, Get or Post. An unknown path yields
// 404 and a known path requested with the wrong method yields 405. HEAD is
// served by the GET handler.
package router
