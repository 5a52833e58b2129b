package router

import (
	"strings"

	"hotspot-control/core/apikey"
)

// PublicPaths are served without a key segment when auth is enabled.
var PublicPaths = []string{"/", "/favicon.ico"}

type decision int

const (
	decisionAllow decision = iota
	decisionGuidance
	decisionDenied
)

func isPublic(path string) bool {
	for _, p := range PublicPaths {
		if p == path {
			return true
		}
	}
	return false
}

// authorize returns the route path for an allowed request.
func (r *Router) authorize(path string) (string, decision) {
	if !r.authEnabled {
		return path, decisionAllow
	}

	if isPublic(path) {
		if path == "/" {
			return path, decisionGuidance
		}
		return path, decisionAllow
	}

	segment, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if !apikey.Equal(segment, r.apiKey) {
		return "", decisionDenied
	}
	return "/" + rest, decisionAllow
}
