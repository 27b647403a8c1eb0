// Package auth provides authentication and session management.
// This file defines the public API of the auth bounded context.
// Only types and interfaces defined here should be imported by other domains.
package auth

import (
	"estate_dashboard_backend/internal/auth/session"
	"estate_dashboard_backend/internal/rbac"
)

// Re-export session types other domains depend on.
type (
	Directory = session.Directory
	Manager   = session.Manager
)

var ErrInvalidCredentials = session.ErrInvalidCredentials

// SessionProvider exposes the active session to other domains.
type SessionProvider interface {
	CurrentPrincipal() (rbac.Principal, bool)
	CurrentCapabilities() rbac.CapabilitySet
}

var _ SessionProvider = (*session.Manager)(nil)
