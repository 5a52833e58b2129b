// Package status exposes host readings over HTTP.
//
// Routes:
//
//	GET /api/status       cached snapshot
//	GET /api/system/info  snapshot plus host identity
//	GET /api/debug/status plain-text report, developer mode only
//
// Snapshots come from a statuscache.Cache, so concurrent requests within the
// TTL share one computation.
package status
