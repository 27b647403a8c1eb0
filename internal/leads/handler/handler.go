package handler

import (
	"net/http"
	"time"

	"estate_dashboard_backend/internal/http/middleware"
	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/internal/leads/forecast"
	"estate_dashboard_backend/internal/leads/management"
	"estate_dashboard_backend/internal/leads/scheduling"
	"estate_dashboard_backend/internal/leads/transport"
	"estate_dashboard_backend/platform/httpkit"
	"estate_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	mgmt     *management.Service
	sched    *scheduling.Service
	forecast *forecast.Service
	val      *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"

	defaultUpcomingWindow = 7 * 24 * time.Hour
	maxUpcomingWindow     = 90 * 24 * time.Hour
)

func New(mgmt *management.Service, sched *scheduling.Service, fc *forecast.Service, val *validator.Validator) *Handler {
	return &Handler{mgmt: mgmt, sched: sched, forecast: fc, val: val}
}

// RegisterRoutes mounts lead, pipeline and follow-up routes on the protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	leads.GET("", h.List)
	leads.POST("", h.Create)
	leads.GET("/:id", h.GetByID)
	leads.POST("/:id/advance", h.Advance)
	leads.POST("/:id/reopen", h.Reopen)
	leads.POST("/:id/assign", h.Assign)
	leads.PATCH("/:id/probability", h.UpdateProbability)

	rg.GET("/pipeline", h.Pipeline)

	followUps := rg.Group("/followups")
	followUps.POST("", h.ScheduleFollowUp)
	followUps.GET("/upcoming", h.Upcoming)
	followUps.POST("/:id/complete", h.CompleteFollowUp)
}

func (h *Handler) List(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	leads := h.mgmt.VisibleLeads(c.Request.Context(), principal)
	items := make([]transport.LeadResponse, 0, len(leads))
	for _, l := range leads {
		items = append(items, transport.ToLeadResponse(l))
	}
	httpkit.OK(c, transport.LeadListResponse{Items: items, Total: len(items)})
}

func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req transport.CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.mgmt.Create(c.Request.Context(), principal, management.CreateInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		PropertyID:      req.PropertyID,
		Value:           req.Value,
		Probability:     req.Probability,
		Stage:           domain.Stage(req.Stage),
		AssignedAgentID: req.AssignedAgentID,
		Notes:           req.Notes,
		Source:          req.Source,
		Priority:        domain.Priority(req.Priority),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(lead))
}

func (h *Handler) GetByID(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	lead, err := h.mgmt.Get(c.Request.Context(), principal, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Advance(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.StageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.mgmt.Advance(c.Request.Context(), id, domain.Stage(req.Stage), principal)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Reopen(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.ReopenRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.mgmt.Reopen(c.Request.Context(), id, domain.Stage(req.Stage), principal, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Assign(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.AssignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.mgmt.Reassign(c.Request.Context(), id, req.AgentID, principal)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) UpdateProbability(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.ProbabilityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.mgmt.UpdateProbability(c.Request.Context(), id, req.Probability, principal)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Pipeline(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var q transport.PipelineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Details(err))
		return
	}

	var stage *domain.Stage
	if q.Stage != "" {
		s := domain.Stage(q.Stage)
		stage = &s
	}
	report := h.forecast.Pipeline(c.Request.Context(), principal, stage)
	httpkit.OK(c, transport.PipelineResponse{
		Stage:   q.Stage,
		Summary: report.Summary,
		Stages:  report.Stages,
	})
}

func (h *Handler) ScheduleFollowUp(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req transport.ScheduleFollowUpRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fu, err := h.sched.Schedule(c.Request.Context(), principal, scheduling.ScheduleInput{
		LeadID:      req.LeadID,
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		AssigneeID:  req.AssigneeID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToFollowUpResponse(fu))
}

func (h *Handler) CompleteFollowUp(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	fu, err := h.sched.Complete(c.Request.Context(), principal, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToFollowUpResponse(fu))
}

// Upcoming accepts window as a Go duration ("48h"). It defaults to one week.
func (h *Handler) Upcoming(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var q transport.UpcomingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	window := defaultUpcomingWindow
	if q.Window != "" {
		d, err := time.ParseDuration(q.Window)
		if err != nil || d < 0 || d > maxUpcomingWindow {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "window must be a duration between 0 and 2160h")
			return
		}
		window = d
	}

	items := make([]transport.FollowUpResponse, 0)
	for fu := range h.sched.Upcoming(c.Request.Context(), window, principal) {
		items = append(items, transport.ToFollowUpResponse(fu))
	}
	httpkit.OK(c, transport.FollowUpListResponse{Items: items})
}

func (h *Handler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(dst); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Details(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
