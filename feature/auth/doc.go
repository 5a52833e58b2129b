// Package auth lets a developer change API key settings from the panel.
//
// Routes, both answering 403 unless developer mode is on:
//
//	POST /api/generate-key  replace the key with a fresh one
//	POST /api/toggle-auth   body {"enabled": bool}
//
// A change restarts the server with the new configuration once the response
// has been sent. The routes still require the current key while auth is on.
// There is no unauthenticated auth-status route: it would hand the key to
// anyone who can reach the port.
package auth
