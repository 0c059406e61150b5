package server

import (
	"github.com/gin-gonic/gin"
)

// HeaderActorRole carries the caller's role as asserted by the upstream gateway.
const HeaderActorRole = "X-Actor-Role"

func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authz == nil {
			c.Next()
			return
		}

		role := c.GetHeader(HeaderActorRole)
		if err := s.authz.Authorize(c.Request.Context(), role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
