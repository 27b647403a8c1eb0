// Package ports defines the interfaces the leads domain needs from other
// domains. These are consumer-driven: leads states what it needs and the
// providing bounded context adapts to it.
package ports

import (
	"context"

	"estate_dashboard_backend/internal/rbac"

	"github.com/google/uuid"
)

// PrincipalLookup resolves operator ids to principals, used to validate
// reassignment targets and follow-up assignees.
type PrincipalLookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (rbac.Principal, bool)
}
