// Package wifi exposes hotspot start and stop over HTTP.
//
// Both routes answer 200 with {"success":true,"message":...} or
// {"success":false,"error":...}. The controller decides how the hotspot is
// actually toggled.
package wifi
