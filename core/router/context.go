package router

import (
	"context"

	"hotspot-control/core/protocol"

	"go.uber.org/zap"
)

// Context carries one request through middleware and handlers.
type Context struct {
	ctx context.Context

	// Request is the parsed request.
	Request *protocol.Request
	// Path is the request path with the key segment removed.
	Path string
	// RayID identifies the connection in logs and response headers.
	RayID string
	// RemoteAddr is the peer address.
	RemoteAddr string
	// Logger is tagged with the ray id.
	Logger *zap.Logger
}

// NewContext creates a request context.
func NewContext(ctx context.Context, req *protocol.Request, rayID, remote string, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		ctx:        ctx,
		Request:    req,
		Path:       req.Path,
		RayID:      rayID,
		RemoteAddr: remote,
		Logger:     logger,
	}
}

// Context returns the connection context. It is cancelled when the server
// forces connections closed.
func (c *Context) Context() context.Context {
	return c.ctx
}
