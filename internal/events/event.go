// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"estate_dashboard_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Auth Domain Events
// =============================================================================

// SessionStarted is published after a successful login.
type SessionStarted struct {
	BaseEvent
	PrincipalID uuid.UUID `json:"principalId"`
	Role        string    `json:"role"`
}

func (e SessionStarted) EventName() string { return "auth.session.started" }

// SessionEnded is published when an active session is cleared.
type SessionEnded struct {
	BaseEvent
	PrincipalID uuid.UUID `json:"principalId"`
}

func (e SessionEnded) EventName() string { return "auth.session.ended" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when an operator creates a lead.
type LeadCreated struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	CreatorID       uuid.UUID `json:"creatorId"`
	AssignedAgentID uuid.UUID `json:"assignedAgentId"`
	Value           int64     `json:"value"`
	Source          string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// PipelineStageChanged is published when a lead moves along the funnel.
type PipelineStageChanged struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	ActorID  uuid.UUID `json:"actorId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
}

func (e PipelineStageChanged) EventName() string { return "leads.pipeline.changed" }

// LeadReopened is published when a lead is moved backward as a correction.
type LeadReopened struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	ActorID  uuid.UUID `json:"actorId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
	Reason   string    `json:"reason"`
}

func (e LeadReopened) EventName() string { return "leads.reopened" }

// LeadAssigned is published when a lead is reassigned to another agent.
type LeadAssigned struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	PreviousAgent uuid.UUID `json:"previousAgent"`
	NewAgent      uuid.UUID `json:"newAgent"`
	AssignedByID  uuid.UUID `json:"assignedById"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// =============================================================================
// Follow-Up Domain Events
// =============================================================================

// FollowUpScheduled is published when a follow-up is created against a lead.
type FollowUpScheduled struct {
	BaseEvent
	FollowUpID  uuid.UUID `json:"followUpId"`
	LeadID      uuid.UUID `json:"leadId"`
	AssigneeID  uuid.UUID `json:"assigneeId"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func (e FollowUpScheduled) EventName() string { return "followups.scheduled" }

// FollowUpCompleted is published the first time a follow-up is completed.
type FollowUpCompleted struct {
	BaseEvent
	FollowUpID uuid.UUID `json:"followUpId"`
	LeadID     uuid.UUID `json:"leadId"`
}

func (e FollowUpCompleted) EventName() string { return "followups.completed" }

// =============================================================================
// Properties Domain Events
// =============================================================================

// PropertyCustomerUpdated is published when customer details on a property change.
type PropertyCustomerUpdated struct {
	BaseEvent
	PropertyID uuid.UUID `json:"propertyId"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e PropertyCustomerUpdated) EventName() string { return "properties.customer.updated" }
