package http

import (
	"estate_dashboard_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	// Name is used in startup logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what the router hands each module.
type RouterContext struct {
	// V1 is the public /api/v1 group.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind token validation and session binding; the
	// session principal is available through middleware.MustPrincipal.
	Protected *gin.RouterGroup
	// AuthRateLimiter throttles credential checks per client IP.
	AuthRateLimiter *httpkit.AuthRateLimiter
}
