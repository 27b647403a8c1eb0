package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"estate_dashboard_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("lead not found")
	ErrFollowUpNotFound = errors.New("follow-up not found")
	ErrDuplicate        = errors.New("duplicate id")
)

// Repository is the in-memory record source for leads and follow-ups.
// Writers are serialised by mu; readers get copies so a snapshot never
// observes a half-applied mutation.
type Repository struct {
	mu        sync.RWMutex
	leads     map[uuid.UUID]domain.Lead
	leadOrder []uuid.UUID
	followUps map[uuid.UUID]domain.FollowUp
	fuOrder   []uuid.UUID
	version   uint64
}

func New() *Repository {
	return &Repository{
		leads:     make(map[uuid.UUID]domain.Lead),
		followUps: make(map[uuid.UUID]domain.FollowUp),
	}
}

func (r *Repository) InsertLead(_ context.Context, lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.leads[lead.ID]; exists {
		return fmt.Errorf("%w: lead %s", ErrDuplicate, lead.ID)
	}
	r.leads[lead.ID] = lead.Clone()
	r.leadOrder = append(r.leadOrder, lead.ID)
	r.version++
	return nil
}

func (r *Repository) GetLead(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.leads[id]
	if !ok {
		return domain.Lead{}, ErrNotFound
	}
	return lead.Clone(), nil
}

func (r *Repository) UpdateLead(_ context.Context, id uuid.UUID, fn LeadMutation) (domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.leads[id]
	if !ok {
		return domain.Lead{}, ErrNotFound
	}
	working := current.Clone()
	changed, err := fn(&working)
	if err != nil {
		return domain.Lead{}, err
	}
	if !changed {
		return current.Clone(), nil
	}
	working.ID = id
	r.leads[id] = working
	r.version++
	return working.Clone(), nil
}

// InsertFollowUp stores a follow-up without touching its lead. Used by the
// fixture loader; live scheduling goes through AddFollowUp.
func (r *Repository) InsertFollowUp(_ context.Context, followUp domain.FollowUp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[followUp.LeadID]; !ok {
		return ErrNotFound
	}
	if _, exists := r.followUps[followUp.ID]; exists {
		return fmt.Errorf("%w: follow-up %s", ErrDuplicate, followUp.ID)
	}
	r.followUps[followUp.ID] = followUp.Clone()
	r.fuOrder = append(r.fuOrder, followUp.ID)
	r.refreshNextFollowUp(followUp.LeadID)
	return nil
}

func (r *Repository) AddFollowUp(_ context.Context, followUp domain.FollowUp, guard LeadGuard) (domain.FollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[followUp.LeadID]
	if !ok {
		return domain.FollowUp{}, ErrNotFound
	}
	if guard != nil {
		if err := guard(lead.Clone(), &followUp); err != nil {
			return domain.FollowUp{}, err
		}
		followUp.LeadID = lead.ID
	}
	if _, exists := r.followUps[followUp.ID]; exists {
		return domain.FollowUp{}, fmt.Errorf("%w: follow-up %s", ErrDuplicate, followUp.ID)
	}
	r.followUps[followUp.ID] = followUp.Clone()
	r.fuOrder = append(r.fuOrder, followUp.ID)
	r.refreshNextFollowUp(followUp.LeadID)
	return followUp.Clone(), nil
}

// CompleteFollowUp marks id completed at the given time. A second call
// returns the stored record with changed=false.
func (r *Repository) CompleteFollowUp(_ context.Context, id uuid.UUID, at time.Time, guard FollowUpGuard) (domain.FollowUp, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fu, ok := r.followUps[id]
	if !ok {
		return domain.FollowUp{}, false, ErrFollowUpNotFound
	}
	if guard != nil {
		if err := guard(fu.Clone(), r.leads[fu.LeadID].Clone()); err != nil {
			return domain.FollowUp{}, false, err
		}
	}
	if fu.Completed {
		return fu.Clone(), false, nil
	}
	fu.Completed = true
	completedAt := at
	fu.CompletedAt = &completedAt
	r.followUps[id] = fu
	r.refreshNextFollowUp(fu.LeadID)
	return fu.Clone(), true, nil
}

// refreshNextFollowUp sets the lead's next follow-up to its earliest open
// one. Caller holds the write lock.
func (r *Repository) refreshNextFollowUp(leadID uuid.UUID) {
	lead, ok := r.leads[leadID]
	if !ok {
		return
	}
	var next *time.Time
	for _, id := range r.fuOrder {
		fu := r.followUps[id]
		if fu.LeadID != leadID || fu.Completed {
			continue
		}
		if next == nil || fu.ScheduledAt.Before(*next) {
			t := fu.ScheduledAt
			next = &t
		}
	}
	lead.NextFollowUpAt = next
	r.leads[leadID] = lead
	r.version++
}

func (r *Repository) Snapshot(_ context.Context) Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := Snapshot{
		Version:   r.version,
		Leads:     make([]domain.Lead, 0, len(r.leadOrder)),
		FollowUps: make([]domain.FollowUp, 0, len(r.fuOrder)),
	}
	for _, id := range r.leadOrder {
		snap.Leads = append(snap.Leads, r.leads[id].Clone())
	}
	for _, id := range r.fuOrder {
		snap.FollowUps = append(snap.FollowUps, r.followUps[id].Clone())
	}
	return snap
}

func (r *Repository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}
