package handler

import (
	"net/http"

	"estate_dashboard_backend/internal/auth/session"
	"estate_dashboard_backend/internal/auth/token"
	"estate_dashboard_backend/internal/auth/transport"
	"estate_dashboard_backend/internal/http/middleware"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/httpkit"
	"estate_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	sessions *session.Manager
	issuer   *token.Issuer
	val      *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(sessions *session.Manager, issuer *token.Issuer, val *validator.Validator) *Handler {
	return &Handler{sessions: sessions, issuer: issuer, val: val}
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Details(err))
		return
	}

	principal, err := h.sessions.Login(c.Request.Context(), req.Identifier, req.Secret)
	if httpkit.HandleError(c, err) {
		return
	}

	accessToken, expiresAt, err := h.issuer.Issue(principal)
	if err != nil {
		_ = h.sessions.Logout(c.Request.Context())
		httpkit.Error(c, http.StatusInternalServerError, "could not issue token", nil)
		return
	}

	httpkit.OK(c, transport.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		Principal:   toPrincipalResponse(principal),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if httpkit.HandleError(c, h.sessions.Logout(c.Request.Context())) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	httpkit.OK(c, toPrincipalResponse(principal))
}

func toPrincipalResponse(p rbac.Principal) transport.PrincipalResponse {
	caps := p.Capabilities().Sorted()
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	return transport.PrincipalResponse{
		ID:           p.ID.String(),
		DisplayName:  p.DisplayName,
		Role:         string(p.Role),
		RoleLabel:    p.Role.Label(),
		Capabilities: names,
	}
}
