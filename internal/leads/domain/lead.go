package domain

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Lead is a prospective sale tracked through the funnel. Value is in the
// smallest currency unit. Probability is a percentage in [0, 100].
type Lead struct {
	ID              uuid.UUID  `json:"id" yaml:"id"`
	CustomerName    string     `json:"customerName" yaml:"customerName"`
	CustomerPhone   string     `json:"customerPhone" yaml:"customerPhone"`
	CustomerEmail   string     `json:"customerEmail,omitempty" yaml:"customerEmail"`
	PropertyID      uuid.UUID  `json:"propertyId" yaml:"propertyId"`
	Value           int64      `json:"value" yaml:"value"`
	Probability     int        `json:"probability" yaml:"probability"`
	Stage           Stage      `json:"stage" yaml:"stage"`
	AssignedAgentID uuid.UUID  `json:"assignedAgentId" yaml:"assignedAgentId"`
	CreatorID       uuid.UUID  `json:"creatorId" yaml:"creatorId"`
	CreatedAt       time.Time  `json:"createdAt" yaml:"createdAt"`
	LastContactAt   time.Time  `json:"lastContactAt" yaml:"lastContactAt"`
	NextFollowUpAt  *time.Time `json:"nextFollowUpAt,omitempty" yaml:"nextFollowUpAt"`
	Notes           string     `json:"notes,omitempty" yaml:"notes"`
	Source          string     `json:"source,omitempty" yaml:"source"`
	Priority        Priority   `json:"priority" yaml:"priority"`
}

// Clone returns a copy that shares no pointers with l.
func (l Lead) Clone() Lead {
	if l.NextFollowUpAt != nil {
		t := *l.NextFollowUpAt
		l.NextFollowUpAt = &t
	}
	return l
}

// FollowUp is a scheduled interaction tied to a lead. Completed never
// goes back to false.
type FollowUp struct {
	ID          uuid.UUID  `json:"id" yaml:"id"`
	LeadID      uuid.UUID  `json:"leadId" yaml:"leadId"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description"`
	ScheduledAt time.Time  `json:"scheduledAt" yaml:"scheduledAt"`
	AssigneeID  uuid.UUID  `json:"assigneeId" yaml:"assigneeId"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
}

func (f FollowUp) Clone() FollowUp {
	if f.CompletedAt != nil {
		t := *f.CompletedAt
		f.CompletedAt = &t
	}
	return f
}
