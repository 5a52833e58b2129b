package router

import (
	"net/http"
	"sort"
	"strings"

	"hotspot-control/core/protocol"
	"hotspot-control/core/server"

	"go.uber.org/zap"
)

// HandlerFunc serves a request.
type HandlerFunc func(c *Context) *protocol.Response

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// Router dispatches requests by path and method.
type Router struct {
	apiKey      string
	authEnabled bool
	logger      *zap.Logger

	routes     map[string]map[string]HandlerFunc
	middleware []Middleware
}

// New creates a router for the given server configuration.
func New(cfg server.Config, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		apiKey:      cfg.ApiKey,
		authEnabled: cfg.AuthEnabled,
		logger:      logger,
		routes:      make(map[string]map[string]HandlerFunc),
	}
	r.Get("/favicon.ico", serveFavicon)
	return r
}

// AuthEnabled reports whether requests need the key segment.
func (r *Router) AuthEnabled() bool {
	return r.authEnabled
}

// Use appends middleware. The first added runs outermost.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Handle registers h for method and path. A later registration replaces an
// earlier one.
func (r *Router) Handle(method, path string, h HandlerFunc) {
	method = strings.ToUpper(method)
	if r.routes[path] == nil {
		r.routes[path] = make(map[string]HandlerFunc)
	}
	r.routes[path][method] = h
}

// Get registers a GET handler.
func (r *Router) Get(path string, h HandlerFunc) {
	r.Handle(http.MethodGet, path, h)
}

// Post registers a POST handler.
func (r *Router) Post(path string, h HandlerFunc) {
	r.Handle(http.MethodPost, path, h)
}

// Routes returns the registered "METHOD path" pairs, sorted.
func (r *Router) Routes() []string {
	var out []string
	for path, methods := range r.routes {
		for m := range methods {
			out = append(out, m+" "+path)
		}
	}
	sort.Strings(out)
	return out
}

// Serve runs the middleware chain and dispatches the request.
func (r *Router) Serve(c *Context) *protocol.Response {
	h := r.dispatch
	for i := len(r.middleware) - 1; i >= 0; i-- {
		h = r.middleware[i](h)
	}
	return h(c)
}

func (r *Router) dispatch(c *Context) *protocol.Response {
	method := c.Request.Method
	if method == http.MethodOptions {
		return protocol.Empty(http.StatusNoContent)
	}

	path, decision := r.authorize(c.Request.Path)
	switch decision {
	case decisionGuidance:
		return protocol.HTML(http.StatusOK, guidancePage)
	case decisionDenied:
		c.Logger.Info("Rejected request with invalid api key", zap.String("remote", c.RemoteAddr))
		return Unauthorized()
	}
	c.Path = path

	if path == "/" {
		if method != http.MethodGet && method != http.MethodHead {
			return methodNotAllowed(http.MethodGet)
		}
		return protocol.HTML(http.StatusOK, panelPage)
	}

	methods, ok := r.routes[path]
	if !ok {
		return NotFound()
	}

	lookup := method
	if lookup == http.MethodHead {
		lookup = http.MethodGet
	}
	h, ok := methods[lookup]
	if !ok {
		allowed := make([]string, 0, len(methods))
		for m := range methods {
			allowed = append(allowed, m)
		}
		sort.Strings(allowed)
		return methodNotAllowed(allowed...)
	}

	resp := h(c)
	if resp == nil {
		return InternalError()
	}
	return resp
}

// Unauthorized is the response for a missing or wrong key.
func Unauthorized() *protocol.Response {
	return protocol.JSON(http.StatusUnauthorized, map[string]string{
		"error":   "Unauthorized",
		"message": "Invalid API Key",
	})
}

// NotFound is the response for unknown paths.
func NotFound() *protocol.Response {
	return protocol.Text(http.StatusNotFound, "404 Not Found")
}

// BadRequest is the response for malformed requests.
func BadRequest() *protocol.Response {
	return protocol.Text(http.StatusBadRequest, "400 Bad Request")
}

// TooLarge is the response for requests over a size limit.
func TooLarge() *protocol.Response {
	return protocol.Text(http.StatusRequestEntityTooLarge, "413 Request Entity Too Large")
}

// InternalError is the generic failure response. It never carries details.
func InternalError() *protocol.Response {
	return protocol.JSON(http.StatusInternalServerError, map[string]string{
		"error": "Internal Server Error",
	})
}

func methodNotAllowed(allowed ...string) *protocol.Response {
	return protocol.JSON(http.StatusMethodNotAllowed, map[string]any{
		"success": false,
		"error":   "Method not allowed",
	}).Set("Allow", strings.Join(allowed, ", "))
}
