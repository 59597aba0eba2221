package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	admindomain "github.com/offerdesk/offerdesk/internal/admin/domain"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
)

const headerAuthorization = "Authorization"

// AuthRequired validates the bearer token and loads the tenant identity
// into the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(headerAuthorization))
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		tc, err := s.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Request = c.Request.WithContext(tenantctx.WithTenant(c.Request.Context(), tc))
		c.Next()
	}
}

// SuperAdminRequired gates the operator console.
func SuperAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := tenantctx.FromContext(c.Request.Context())
		if !ok || !tc.IsSuperAdmin() {
			AbortWithError(c, admindomain.ErrForbidden)
			return
		}
		c.Next()
	}
}

// PublicRateLimit throttles the anonymous offer link endpoints per client
// address. Absent redis, everything passes.
func (s *Server) PublicRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := s.publicLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Limiter trouble must not take the public page down.
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
