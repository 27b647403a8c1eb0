package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is what a validated access token claims. It says nothing about
// whether the claimed principal still holds the session.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// GetIdentity returns the identity stored by AuthRequired.
func GetIdentity(c *gin.Context) (Identity, bool) {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return Identity{}, false
	}
	uid, ok := raw.(uuid.UUID)
	if !ok || uid == uuid.Nil {
		return Identity{}, false
	}
	return Identity{UserID: uid, Role: c.GetString(ContextRoleKey)}, true
}

// MustGetIdentity is GetIdentity that aborts with 401 when no token was
// validated for the request.
func MustGetIdentity(c *gin.Context) (Identity, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}
