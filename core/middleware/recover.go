package middleware

import (
	"hotspot-control/core/protocol"
	"hotspot-control/core/router"

	"go.uber.org/zap"
)

// Recover converts a panic in a handler into router.InternalError.
func Recover() router.Middleware {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) (resp *protocol.Response) {
			defer func() {
				if r := recover(); r != nil {
					c.Logger.Error("Handler panicked",
						zap.String("path", c.Path),
						zap.Any("panic", r),
						zap.Stack("stack"),
					)
					resp = router.InternalError()
				}
			}()
			return next(c)
		}
	}
}
