package handler

import (
	"net/http"

	"estate_dashboard_backend/internal/http/middleware"
	"estate_dashboard_backend/internal/properties/service"
	"estate_dashboard_backend/internal/properties/transport"
	"estate_dashboard_backend/platform/httpkit"
	"estate_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/customer", h.UpdateCustomer)
}

func (h *Handler) GetByID(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid property id", nil)
		return
	}

	view, err := h.svc.View(c.Request.Context(), principal, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToPropertyResponse(view))
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid property id", nil)
		return
	}

	var req transport.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Details(err))
		return
	}

	view, err := h.svc.UpdateCustomerDetails(c.Request.Context(), principal, id, req.ToPatch())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToPropertyResponse(view))
}
