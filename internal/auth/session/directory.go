package session

import (
	"context"
	"errors"

	"estate_dashboard_backend/internal/rbac"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned by a Directory when the identifier is
// unknown or the secret does not match. Callers must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Directory is the identity collaborator that owns credential verification.
// This is a consumer-driven interface - only what the session manager needs.
type Directory interface {
	// Verify checks identifier/secret and returns the matching principal.
	Verify(ctx context.Context, identifier, secret string) (rbac.Principal, error)
	// Lookup resolves a principal by id without touching credentials.
	Lookup(ctx context.Context, id uuid.UUID) (rbac.Principal, bool)
}
