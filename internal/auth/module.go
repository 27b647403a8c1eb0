// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"estate_dashboard_backend/internal/auth/handler"
	"estate_dashboard_backend/internal/auth/session"
	"estate_dashboard_backend/internal/auth/token"
	apphttp "estate_dashboard_backend/internal/http"
	"estate_dashboard_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	sessions *session.Manager
}

// NewModule creates the auth module around the client's session manager.
func NewModule(sessions *session.Manager, issuer *token.Issuer, val *validator.Validator) *Module {
	return &Module{
		handler:  handler.New(sessions, issuer, val),
		sessions: sessions,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Sessions returns the session manager for other modules.
func (m *Module) Sessions() *session.Manager {
	return m.sessions
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	authGroup.POST("/login", m.handler.Login)

	ctx.Protected.POST("/auth/logout", m.handler.Logout)
	ctx.Protected.GET("/me", m.handler.Me)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
