// Package middleware binds validated tokens to the dashboard session.
package middleware

import (
	"net/http"

	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ContextPrincipalKey is the gin context key for the session principal.
const ContextPrincipalKey = "principal"

// SessionSource reports the principal of the active session.
type SessionSource interface {
	CurrentPrincipal() (rbac.Principal, bool)
}

// RequireSession admits a request only when its token subject is the
// principal of the current session. A token that outlived its session, or
// was issued to someone else, is rejected with 401. Must run after
// httpkit.AuthRequired.
func RequireSession(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpkit.MustGetIdentity(c)
		if !ok {
			return
		}
		current, ok := sessions.CurrentPrincipal()
		if !ok || current.ID != id.UserID || string(current.Role) != id.Role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set(ContextPrincipalKey, current)
		c.Next()
	}
}

// Principal returns the session principal stored by RequireSession.
func Principal(c *gin.Context) (rbac.Principal, bool) {
	v, ok := c.Get(ContextPrincipalKey)
	if !ok {
		return rbac.Principal{}, false
	}
	p, ok := v.(rbac.Principal)
	return p, ok
}

// MustPrincipal returns the session principal or aborts with 401.
func MustPrincipal(c *gin.Context) (rbac.Principal, bool) {
	p, ok := Principal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return p, ok
}
