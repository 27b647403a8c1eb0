package transport

import (
	"time"

	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/internal/leads/forecast"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	CustomerName    string    `json:"customerName" validate:"required,min=1,max=200"`
	CustomerPhone   string    `json:"customerPhone" validate:"omitempty,min=5,max=32"`
	CustomerEmail   string    `json:"customerEmail,omitempty" validate:"omitempty,email"`
	PropertyID      uuid.UUID `json:"propertyId"`
	Value           int64     `json:"value" validate:"gte=0"`
	Probability     int       `json:"probability" validate:"gte=0,lte=100"`
	Stage           string    `json:"stage,omitempty" validate:"omitempty,stage"`
	AssignedAgentID uuid.UUID `json:"assignedAgentId"`
	Notes           string    `json:"notes,omitempty" validate:"max=4000"`
	Source          string    `json:"source,omitempty" validate:"max=100"`
	Priority        string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

type StageRequest struct {
	Stage string `json:"stage" validate:"required,stage"`
}

type ReopenRequest struct {
	Stage  string `json:"stage" validate:"required,stage"`
	Reason string `json:"reason" validate:"required,max=500"`
}

type AssignRequest struct {
	AgentID uuid.UUID `json:"agentId" validate:"required"`
}

type ProbabilityRequest struct {
	Probability int `json:"probability" validate:"gte=0,lte=100"`
}

type ScheduleFollowUpRequest struct {
	LeadID      uuid.UUID `json:"leadId" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	AssigneeID  uuid.UUID `json:"assigneeId"`
}

type PipelineQuery struct {
	Stage string `form:"stage" validate:"omitempty,stage"`
}

type UpcomingQuery struct {
	Window string `form:"window"`
}

// Response DTOs
type LeadResponse struct {
	ID              uuid.UUID                `json:"id"`
	CustomerName    string                   `json:"customerName"`
	CustomerPhone   string                   `json:"customerPhone,omitempty"`
	CustomerEmail   string                   `json:"customerEmail,omitempty"`
	PropertyID      uuid.UUID                `json:"propertyId"`
	Value           int64                    `json:"value"`
	Probability     int                      `json:"probability"`
	Stage           string                   `json:"stage"`
	Terminal        bool                     `json:"terminal"`
	Suggested       *domain.ProbabilityRange `json:"suggestedProbability,omitempty"`
	AssignedAgentID uuid.UUID                `json:"assignedAgentId"`
	CreatorID       uuid.UUID                `json:"creatorId"`
	CreatedAt       time.Time                `json:"createdAt"`
	LastContactAt   time.Time                `json:"lastContactAt"`
	NextFollowUpAt  *time.Time               `json:"nextFollowUpAt,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	Source          string                   `json:"source,omitempty"`
	Priority        string                   `json:"priority"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type FollowUpResponse struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	AssigneeID  uuid.UUID  `json:"assigneeId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type FollowUpListResponse struct {
	Items []FollowUpResponse `json:"items"`
}

type PipelineResponse struct {
	Stage   string                  `json:"stage,omitempty"`
	Summary forecast.Summary        `json:"summary"`
	Stages  []forecast.StageSummary `json:"stages"`
}

func ToLeadResponse(l domain.Lead) LeadResponse {
	resp := LeadResponse{
		ID:              l.ID,
		CustomerName:    l.CustomerName,
		CustomerPhone:   l.CustomerPhone,
		CustomerEmail:   l.CustomerEmail,
		PropertyID:      l.PropertyID,
		Value:           l.Value,
		Probability:     l.Probability,
		Stage:           string(l.Stage),
		Terminal:        domain.IsTerminal(l.Stage),
		AssignedAgentID: l.AssignedAgentID,
		CreatorID:       l.CreatorID,
		CreatedAt:       l.CreatedAt,
		LastContactAt:   l.LastContactAt,
		NextFollowUpAt:  l.NextFollowUpAt,
		Notes:           l.Notes,
		Source:          l.Source,
		Priority:        string(l.Priority),
	}
	if r, ok := domain.SuggestedProbability(l.Stage); ok {
		resp.Suggested = &r
	}
	return resp
}

func ToFollowUpResponse(f domain.FollowUp) FollowUpResponse {
	return FollowUpResponse{
		ID:          f.ID,
		LeadID:      f.LeadID,
		Title:       f.Title,
		Description: f.Description,
		ScheduledAt: f.ScheduledAt,
		AssigneeID:  f.AssigneeID,
		Completed:   f.Completed,
		CompletedAt: f.CompletedAt,
		CreatedAt:   f.CreatedAt,
	}
}
