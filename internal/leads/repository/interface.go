package repository

import (
	"context"
	"time"

	"estate_dashboard_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	Snapshot(ctx context.Context) Snapshot
}

// LeadWriter provides write operations for lead management.
// Update runs fn under the write lock; when fn fails nothing is written.
type LeadWriter interface {
	InsertLead(ctx context.Context, lead domain.Lead) error
	UpdateLead(ctx context.Context, id uuid.UUID, fn LeadMutation) (domain.Lead, error)
}

// FollowUpStore persists follow-ups atomically with their lead.
type FollowUpStore interface {
	AddFollowUp(ctx context.Context, followUp domain.FollowUp, guard LeadGuard) (domain.FollowUp, error)
	CompleteFollowUp(ctx context.Context, id uuid.UUID, at time.Time, guard FollowUpGuard) (domain.FollowUp, bool, error)
}

// Versioned exposes the lead mutation counter used for cache invalidation.
type Versioned interface {
	Version() uint64
}

// LeadMutation edits lead in place. Returning changed=false leaves the
// stored lead and the version untouched.
type LeadMutation func(lead *domain.Lead) (changed bool, err error)

// LeadGuard vets the owning lead before a follow-up is written. It may fill
// in defaults on followUp.
type LeadGuard func(lead domain.Lead, followUp *domain.FollowUp) error

// FollowUpGuard vets a follow-up and its lead before completion.
type FollowUpGuard func(followUp domain.FollowUp, lead domain.Lead) error

// Snapshot is a consistent copy of all leads and follow-ups at one version.
type Snapshot struct {
	Version   uint64
	Leads     []domain.Lead
	FollowUps []domain.FollowUp
}

// LeadsByID indexes the snapshot's leads.
func (s Snapshot) LeadsByID() map[uuid.UUID]domain.Lead {
	out := make(map[uuid.UUID]domain.Lead, len(s.Leads))
	for _, l := range s.Leads {
		out[l.ID] = l
	}
	return out
}
