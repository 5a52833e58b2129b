package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"hotspot-control/core/protocol"
	"hotspot-control/core/router"
	"hotspot-control/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "test-key-0123456789"

func newRouter(authEnabled bool) (*router.Router, *int) {
	r := router.New(server.Config{ApiKey: testKey, AuthEnabled: authEnabled}, zap.NewNop())
	calls := 0
	r.Get("/api/status", func(c *router.Context) *protocol.Response {
		return protocol.JSON(http.StatusOK, map[string]any{"success": true, "path": c.Path})
	})
	r.Post("/api/wifi/start", func(c *router.Context) *protocol.Response {
		calls++
		return protocol.JSON(http.StatusOK, map[string]any{"success": true})
	})
	return r, &calls
}

func serve(r *router.Router, method, path string) *protocol.Response {
	req := &protocol.Request{Method: method, Path: path, Header: protocol.Header{}}
	return r.Serve(router.NewContext(context.Background(), req, "ray", "127.0.0.1:1", nil))
}

func TestRouter_AuthEnabled(t *testing.T) {
	r, _ := newRouter(true)

	tests := []struct {
		name        string
		method      string
		path        string
		status      int
		contentType string
	}{
		{"Valid Key", "GET", "/" + testKey + "/api/status", 200, "application/json; charset=utf-8"},
		{"Wrong Key", "GET", "/wrong/api/status", 401, "application/json; charset=utf-8"},
		{"No Key", "GET", "/api/status", 401, "application/json; charset=utf-8"},
		{"Wrong Key Unknown Path", "GET", "/wrong/nothing/here", 401, "application/json; charset=utf-8"},
		{"Root Guidance", "GET", "/", 200, "text/html; charset=utf-8"},
		{"Favicon Public", "GET", "/favicon.ico", 200, "image/x-icon"},
		{"Panel With Key", "GET", "/" + testKey, 200, "text/html; charset=utf-8"},
		{"Panel With Key Slash", "GET", "/" + testKey + "/", 200, "text/html; charset=utf-8"},
		{"Unknown Path With Key", "GET", "/" + testKey + "/api/nope", 404, "text/plain; charset=utf-8"},
		{"Method Mismatch", "GET", "/" + testKey + "/api/wifi/start", 405, "application/json; charset=utf-8"},
		{"Head Uses Get", "HEAD", "/" + testKey + "/api/status", 200, "application/json; charset=utf-8"},
		{"Preflight", "OPTIONS", "/anything", 204, ""},
		{"Preflight Wrong Key", "OPTIONS", "/wrong/api/status", 204, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(r, tt.method, tt.path)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.contentType, resp.Get("Content-Type"))
		})
	}
}

func TestRouter_PreflightSkipsKeyCheck(t *testing.T) {
	r, calls := newRouter(true)

	for _, path := range []string{"/wrong/api/status", "/wrong/api/wifi/start", "/api/wifi/start"} {
		resp := serve(r, "OPTIONS", path)
		assert.Equal(t, http.StatusNoContent, resp.Status, path)
		assert.Empty(t, resp.Body, path)
	}
	assert.Equal(t, 0, *calls, "preflight never reaches a handler")
}

func TestRouter_UnauthorizedBody(t *testing.T) {
	r, _ := newRouter(true)
	resp := serve(r, "GET", "/bad/api/status")

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Equal(t, "Unauthorized", body["error"])
	assert.Equal(t, "Invalid API Key", body["message"])
}

func TestRouter_WifiWithoutKeyNeverInvoked(t *testing.T) {
	r, calls := newRouter(true)

	resp := serve(r, "POST", "/wifi/start")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	resp = serve(r, "POST", "/api/wifi/start")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, 0, *calls)

	resp = serve(r, "POST", "/"+testKey+"/api/wifi/start")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, 1, *calls)
}

func TestRouter_KeySegmentStripped(t *testing.T) {
	r, _ := newRouter(true)
	resp := serve(r, "GET", "/"+testKey+"/api/status")

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Equal(t, "/api/status", body["path"])
}

func TestRouter_AuthDisabled(t *testing.T) {
	r, _ := newRouter(false)

	assert.False(t, r.AuthEnabled())
	assert.Equal(t, 200, serve(r, "GET", "/api/status").Status)
	assert.Equal(t, 200, serve(r, "GET", "/").Status)
	assert.Contains(t, string(serve(r, "GET", "/").Body), "Hotspot Control")
	assert.Equal(t, 404, serve(r, "GET", "/"+testKey+"/api/status").Status)
}

func TestRouter_Middleware(t *testing.T) {
	r, _ := newRouter(true)
	var order []string
	mw := func(name string) router.Middleware {
		return func(next router.HandlerFunc) router.HandlerFunc {
			return func(c *router.Context) *protocol.Response {
				order = append(order, name)
				return next(c).Set("X-"+name, "1")
			}
		}
	}
	r.Use(mw("A"), mw("B"))

	resp := serve(r, "GET", "/wrong/api/status")
	assert.Equal(t, []string{"A", "B"}, order)
	assert.Equal(t, "1", resp.Get("X-A"), "middleware also sees rejected requests")
}

func TestRouter_NilResponseIsInternalError(t *testing.T) {
	r := router.New(server.Config{}, nil)
	r.Get("/api/nil", func(*router.Context) *protocol.Response { return nil })

	resp := serve(r, "GET", "/api/nil")
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.NotContains(t, string(resp.Body), "nil")
}

func TestRouter_Routes(t *testing.T) {
	r, _ := newRouter(false)
	assert.Equal(t, []string{"GET /api/status", "GET /favicon.ico", "POST /api/wifi/start"}, r.Routes())
}

func TestPublicPaths(t *testing.T) {
	assert.ElementsMatch(t, []string{"/", "/favicon.ico"}, router.PublicPaths)
}
