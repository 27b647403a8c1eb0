// Package scheduling handles follow-ups: scheduling them against a lead,
// completing them and listing what is coming up for an operator.
package scheduling

import (
	"cmp"
	"context"
	"errors"
	"iter"
	"slices"
	"time"

	"estate_dashboard_backend/internal/events"
	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/internal/leads/ports"
	"estate_dashboard_backend/internal/leads/repository"
	"estate_dashboard_backend/internal/metrics"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/apperr"
	"estate_dashboard_backend/platform/logger"
	"estate_dashboard_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the scheduling service.
// This is a consumer-driven interface - only what scheduling needs.
type Repository interface {
	repository.LeadReader
	repository.FollowUpStore
}

// Service handles follow-up scheduling operations.
type Service struct {
	repo       Repository
	eventBus   events.Bus
	log        *logger.Logger
	metrics    *metrics.Metrics
	principals ports.PrincipalLookup
	reminders  ports.ReminderScheduler
	now        func() time.Time
}

// New creates a new follow-up scheduling service.
func New(repo Repository, eventBus events.Bus, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, eventBus: eventBus, log: log, now: time.Now}
}

func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

func (s *Service) SetPrincipalLookup(p ports.PrincipalLookup) {
	s.principals = p
}

// SetReminderScheduler enables queued reminders for new follow-ups.
func (s *Service) SetReminderScheduler(r ports.ReminderScheduler) {
	s.reminders = r
}

func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ScheduleInput describes a follow-up to create. A nil AssigneeID defaults
// to the lead's assigned agent.
type ScheduleInput struct {
	LeadID      uuid.UUID
	Title       string
	Description string
	ScheduledAt time.Time
	AssigneeID  uuid.UUID
}

// Schedule creates a follow-up. A time before now or a missing lead is a
// validation error; an actor who cannot see the lead is forbidden.
func (s *Service) Schedule(ctx context.Context, actor rbac.Principal, in ScheduleInput) (domain.FollowUp, error) {
	const op = "followups.schedule"
	now := s.now()

	title := sanitize.Line(in.Title)
	if title == "" {
		return domain.FollowUp{}, s.reject(op, actor, apperr.Validation("title is required"))
	}
	if in.ScheduledAt.IsZero() {
		return domain.FollowUp{}, s.reject(op, actor, apperr.Validation("scheduled time is required"))
	}
	if in.ScheduledAt.Before(now) {
		return domain.FollowUp{}, s.reject(op, actor, apperr.Validation("cannot schedule a follow-up in the past"))
	}
	if in.AssigneeID != uuid.Nil && s.principals != nil {
		if _, ok := s.principals.Lookup(ctx, in.AssigneeID); !ok {
			return domain.FollowUp{}, s.reject(op, actor, apperr.Validation("unknown assignee"))
		}
	}

	followUp := domain.FollowUp{
		ID:          uuid.New(),
		LeadID:      in.LeadID,
		Title:       title,
		Description: sanitize.Text(in.Description),
		ScheduledAt: in.ScheduledAt,
		AssigneeID:  in.AssigneeID,
		CreatedAt:   now,
	}

	var lead domain.Lead
	stored, err := s.repo.AddFollowUp(ctx, followUp, func(l domain.Lead, fu *domain.FollowUp) error {
		if !domain.CanView(actor, l) {
			return apperr.Forbidden("lead is not visible to this operator")
		}
		if domain.IsTerminal(l.Stage) {
			return apperr.Validation("cannot schedule a follow-up on a closed lead")
		}
		if fu.AssigneeID == uuid.Nil {
			fu.AssigneeID = l.AssignedAgentID
		}
		lead = l
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.FollowUp{}, s.reject(op, actor, apperr.Validation("lead does not exist"))
		}
		return domain.FollowUp{}, s.reject(op, actor, asAppError(err))
	}

	s.metrics.FollowUp("scheduled")
	s.log.FollowUpEvent("scheduled", stored.ID.String(), stored.LeadID.String())
	s.publish(ctx, events.FollowUpScheduled{
		BaseEvent:   events.NewBaseEvent(now),
		FollowUpID:  stored.ID,
		LeadID:      stored.LeadID,
		AssigneeID:  stored.AssigneeID,
		Title:       stored.Title,
		ScheduledAt: stored.ScheduledAt,
	})
	s.enqueueReminder(ctx, stored, lead)
	return stored, nil
}

// Complete marks a follow-up done. Completing an already completed
// follow-up returns the stored record unchanged and publishes nothing.
func (s *Service) Complete(ctx context.Context, actor rbac.Principal, id uuid.UUID) (domain.FollowUp, error) {
	const op = "followups.complete"

	fu, changed, err := s.repo.CompleteFollowUp(ctx, id, s.now(), func(fu domain.FollowUp, l domain.Lead) error {
		if fu.AssigneeID == actor.ID && !actor.IsZero() {
			return nil
		}
		if !domain.CanView(actor, l) {
			return apperr.Forbidden("follow-up is not visible to this operator")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrFollowUpNotFound) {
			return domain.FollowUp{}, s.reject(op, actor, apperr.NotFound("follow-up not found"))
		}
		return domain.FollowUp{}, s.reject(op, actor, asAppError(err))
	}
	if !changed {
		return fu, nil
	}

	s.metrics.FollowUp("completed")
	s.log.FollowUpEvent("completed", fu.ID.String(), fu.LeadID.String())
	s.publish(ctx, events.FollowUpCompleted{
		BaseEvent:  events.NewBaseEvent(*fu.CompletedAt),
		FollowUpID: fu.ID,
		LeadID:     fu.LeadID,
	})
	return fu, nil
}

// Upcoming yields open follow-ups due within [now, now+window] on leads the
// principal can see, earliest first. Nothing is read until the sequence is
// ranged over, and every range starts from a fresh snapshot and clock
// reading, so the sequence can be restarted.
func (s *Service) Upcoming(ctx context.Context, window time.Duration, p rbac.Principal) iter.Seq[domain.FollowUp] {
	return func(yield func(domain.FollowUp) bool) {
		if window < 0 {
			return
		}
		now := s.now()
		until := now.Add(window)

		snap := s.repo.Snapshot(ctx)
		leads := snap.LeadsByID()

		due := make([]domain.FollowUp, 0)
		for _, fu := range snap.FollowUps {
			if fu.Completed || fu.ScheduledAt.Before(now) || fu.ScheduledAt.After(until) {
				continue
			}
			lead, ok := leads[fu.LeadID]
			if !ok || !domain.CanView(p, lead) {
				continue
			}
			due = append(due, fu)
		}
		slices.SortStableFunc(due, func(a, b domain.FollowUp) int {
			return cmp.Compare(a.ScheduledAt.UnixNano(), b.ScheduledAt.UnixNano())
		})

		for _, fu := range due {
			if !yield(fu) {
				return
			}
		}
	}
}

func (s *Service) enqueueReminder(ctx context.Context, fu domain.FollowUp, lead domain.Lead) {
	if s.reminders == nil {
		return
	}
	if err := s.reminders.ScheduleFollowUpReminder(ctx, fu, lead); err != nil {
		s.metrics.FollowUp("reminder_failed")
		s.log.Warn("failed to enqueue follow-up reminder", "follow_up_id", fu.ID.String(), "error", err)
		return
	}
	s.metrics.FollowUp("reminder_enqueued")
}

func (s *Service) reject(op string, actor rbac.Principal, err error) error {
	s.log.MutationRejected(op, actor.ID.String(), err)
	s.metrics.Rejected(op, apperr.GetKind(err).String())
	return err
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, event)
	}
}

func asAppError(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(apperr.KindInternal, "follow-up store failure", err)
}
