package middleware

import (
	"hotspot-control/core/logger"
	"hotspot-control/core/protocol"
	"hotspot-control/core/router"

	"github.com/google/uuid"
)

// RayIDHeader carries the request id in responses.
const RayIDHeader = "X-Ray-ID"

// RayID assigns a request id when the connection did not provide one and
// sets it on the response.
func RayID() router.Middleware {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) *protocol.Response {
			if c.RayID == "" {
				c.RayID = uuid.NewString()
				c.Logger = logger.WithRayID(c.Logger, c.RayID)
			}
			resp := next(c)
			if resp != nil {
				resp.Set(RayIDHeader, c.RayID)
			}
			return resp
		}
	}
}
