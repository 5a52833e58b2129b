package middleware

import (
	"time"

	"hotspot-control/core/protocol"
	"hotspot-control/core/router"

	"go.uber.org/zap"
)

// Logging logs each request after it has been handled.
func Logging() router.Middleware {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) *protocol.Response {
			start := time.Now()
			resp := next(c)

			status := 0
			if resp != nil {
				status = resp.Status
			}
			fields := []zap.Field{
				zap.String("method", c.Request.Method),
				zap.String("path", c.Path),
				zap.Int("status", status),
				zap.String("ip", c.RemoteAddr),
				zap.Duration("duration", time.Since(start)),
			}
			if status >= 500 {
				c.Logger.Error("Request failed", fields...)
			} else {
				c.Logger.Info("Request completed", fields...)
			}
			return resp
		}
	}
}
