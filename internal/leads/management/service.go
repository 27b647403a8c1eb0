// Package management handles the lead lifecycle: creation, funnel
// transitions, corrections and reassignment. Every mutation is authorized
// and validated inside the repository write lock, so a rejected call never
// leaves a partial write behind.
package management

import (
	"context"
	"errors"
	"strings"
	"time"

	"estate_dashboard_backend/internal/events"
	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/internal/leads/ports"
	"estate_dashboard_backend/internal/leads/repository"
	"estate_dashboard_backend/internal/metrics"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/apperr"
	"estate_dashboard_backend/platform/logger"
	"estate_dashboard_backend/platform/phone"
	"estate_dashboard_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
}

// Service handles lead management operations.
type Service struct {
	repo       Repository
	eventBus   events.Bus
	log        *logger.Logger
	metrics    *metrics.Metrics
	principals ports.PrincipalLookup
	phone      phone.Normalizer
	now        func() time.Time
}

// New creates a new lead management service.
func New(repo Repository, eventBus events.Bus, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		log:      log,
		phone:    phone.NewNormalizer(""),
		now:      time.Now,
	}
}

func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetPrincipalLookup enables assignee validation against the directory.
func (s *Service) SetPrincipalLookup(p ports.PrincipalLookup) {
	s.principals = p
}

func (s *Service) SetPhoneNormalizer(n phone.Normalizer) {
	s.phone = n
}

// SetClock overrides the time source. Tests pass a fixed clock.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateInput carries the fields an operator supplies for a new lead.
type CreateInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	PropertyID      uuid.UUID
	Value           int64
	Probability     int
	Stage           domain.Stage
	AssignedAgentID uuid.UUID
	Notes           string
	Source          string
	Priority        domain.Priority
}

// Create registers a new lead with actor as creator. Agents always own the
// leads they create; managers may assign on creation.
func (s *Service) Create(ctx context.Context, actor rbac.Principal, in CreateInput) (domain.Lead, error) {
	const op = "leads.create"

	if !actor.Can(rbac.EditLeadOwnPipeline) {
		return domain.Lead{}, s.reject(op, actor, apperr.Forbidden("not allowed to create leads"))
	}
	customerName := sanitize.Line(in.CustomerName)
	if customerName == "" {
		return domain.Lead{}, s.reject(op, actor, apperr.Validation("customer name is required"))
	}
	if in.Value < 0 {
		return domain.Lead{}, s.reject(op, actor, apperr.Validation("value must not be negative"))
	}
	if !domain.ValidProbability(in.Probability) {
		return domain.Lead{}, s.reject(op, actor, apperr.Validation("probability must be between 0 and 100"))
	}

	stage := in.Stage
	if stage == "" {
		stage = domain.StageProspecting
	}
	if !stage.Valid() || domain.IsTerminal(stage) {
		return domain.Lead{}, s.reject(op, actor, apperr.Validation("new leads must start in an open stage"))
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.Lead{}, s.reject(op, actor, apperr.Validation("unknown priority"))
	}

	assignee := in.AssignedAgentID
	if assignee == uuid.Nil || !actor.Can(rbac.ViewAllLeads) {
		assignee = actor.ID
	}
	if assignee != actor.ID {
		if err := s.checkAssignee(ctx, assignee); err != nil {
			return domain.Lead{}, s.reject(op, actor, err)
		}
	}

	now := s.now()
	lead := domain.Lead{
		ID:              uuid.New(),
		CustomerName:    customerName,
		CustomerPhone:   s.phone.NormalizeE164(in.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		PropertyID:      in.PropertyID,
		Value:           in.Value,
		Probability:     in.Probability,
		Stage:           stage,
		AssignedAgentID: assignee,
		CreatorID:       actor.ID,
		CreatedAt:       now,
		LastContactAt:   now,
		Notes:           sanitize.Text(in.Notes),
		Source:          sanitize.Line(in.Source),
		Priority:        priority,
	}
	if err := s.repo.InsertLead(ctx, lead); err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "store lead", err).WithOp(op)
	}

	s.publish(ctx, events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(now),
		LeadID:          lead.ID,
		CreatorID:       actor.ID,
		AssignedAgentID: assignee,
		Value:           lead.Value,
		Source:          lead.Source,
	})
	return lead, nil
}

// Get returns one lead if actor may see it.
func (s *Service) Get(ctx context.Context, actor rbac.Principal, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.repo.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, mapRepoError(err)
	}
	if !domain.CanView(actor, lead) {
		return domain.Lead{}, apperr.Forbidden("lead is not visible to this operator")
	}
	return lead, nil
}

// VisibleLeads returns the leads actor may see, in creation order.
func (s *Service) VisibleLeads(ctx context.Context, actor rbac.Principal) []domain.Lead {
	return FilterVisible(s.repo.Snapshot(ctx).Leads, actor)
}

// FilterVisible keeps the leads p may see.
func FilterVisible(leads []domain.Lead, p rbac.Principal) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		if domain.CanView(p, l) {
			out = append(out, l)
		}
	}
	return out
}

// Advance moves a lead to target. Advancing to the current stage returns the
// lead unchanged. Authorization is decided before the transition rule so an
// unauthorized actor learns nothing about the funnel position.
func (s *Service) Advance(ctx context.Context, leadID uuid.UUID, target domain.Stage, actor rbac.Principal) (domain.Lead, error) {
	const op = "leads.advance"
	var from domain.Stage
	moved := false

	updated, err := s.repo.UpdateLead(ctx, leadID, func(lead *domain.Lead) (bool, error) {
		if !domain.CanWorkPipeline(actor, *lead) {
			return false, apperr.Forbidden("not allowed to move this lead")
		}
		if !domain.CanAdvance(lead.Stage, target) {
			return false, apperr.InvalidTransition("cannot move lead from " + string(lead.Stage) + " to " + string(target))
		}
		if lead.Stage == target {
			return false, nil
		}
		from = lead.Stage
		lead.Stage = target
		lead.LastContactAt = s.now()
		moved = true
		return true, nil
	})
	if err != nil {
		return domain.Lead{}, s.reject(op, actor, mapRepoError(err))
	}
	if !moved {
		return updated, nil
	}

	s.metrics.Transition(string(from), string(target))
	s.log.StageChanged(leadID.String(), string(from), string(target), actor.ID.String())
	s.publish(ctx, events.PipelineStageChanged{
		BaseEvent: events.NewBaseEvent(updated.LastContactAt),
		LeadID:    leadID,
		ActorID:   actor.ID,
		OldStage:  string(from),
		NewStage:  string(target),
	})
	return updated, nil
}

// Reopen is the correction path for moving a lead backward or reviving a
// lost lead. It requires ApproveRequests and a reason; won leads are final.
func (s *Service) Reopen(ctx context.Context, leadID uuid.UUID, target domain.Stage, actor rbac.Principal, reason string) (domain.Lead, error) {
	const op = "leads.reopen"
	reason = sanitize.Text(reason)

	if !actor.Can(rbac.ApproveRequests) || !actor.Can(rbac.EditLeadOwnPipeline) {
		return domain.Lead{}, s.reject(op, actor, apperr.Forbidden("reopening a lead requires approval rights"))
	}
	if reason == "" {
		return domain.Lead{}, s.reject(op, actor, apperr.Validation("a reason is required to reopen a lead"))
	}

	var from domain.Stage
	updated, err := s.repo.UpdateLead(ctx, leadID, func(lead *domain.Lead) (bool, error) {
		if !domain.CanWorkPipeline(actor, *lead) {
			return false, apperr.Forbidden("not allowed to move this lead")
		}
		if !domain.CanReopen(lead.Stage, target) {
			return false, apperr.InvalidTransition("cannot reopen lead from " + string(lead.Stage) + " to " + string(target))
		}
		from = lead.Stage
		lead.Stage = target
		lead.LastContactAt = s.now()
		return true, nil
	})
	if err != nil {
		return domain.Lead{}, s.reject(op, actor, mapRepoError(err))
	}

	s.metrics.Transition(string(from), string(target))
	s.log.StageChanged(leadID.String(), string(from), string(target), actor.ID.String())
	s.publish(ctx, events.LeadReopened{
		BaseEvent: events.NewBaseEvent(updated.LastContactAt),
		LeadID:    leadID,
		ActorID:   actor.ID,
		OldStage:  string(from),
		NewStage:  string(target),
		Reason:    reason,
	})
	return updated, nil
}

// Reassign hands a lead to another operator. Requires ViewAllLeads.
func (s *Service) Reassign(ctx context.Context, leadID, agentID uuid.UUID, actor rbac.Principal) (domain.Lead, error) {
	const op = "leads.reassign"

	if !actor.Can(rbac.ViewAllLeads) {
		return domain.Lead{}, s.reject(op, actor, apperr.Forbidden("not allowed to reassign leads"))
	}
	if err := s.checkAssignee(ctx, agentID); err != nil {
		return domain.Lead{}, s.reject(op, actor, err)
	}

	var previous uuid.UUID
	changed := false
	updated, err := s.repo.UpdateLead(ctx, leadID, func(lead *domain.Lead) (bool, error) {
		if domain.IsTerminal(lead.Stage) {
			return false, apperr.InvalidTransition("closed leads cannot be reassigned")
		}
		if lead.AssignedAgentID == agentID {
			return false, nil
		}
		previous = lead.AssignedAgentID
		lead.AssignedAgentID = agentID
		changed = true
		return true, nil
	})
	if err != nil {
		return domain.Lead{}, s.reject(op, actor, mapRepoError(err))
	}
	if !changed {
		return updated, nil
	}

	s.log.Info("lead reassigned", "lead_id", leadID.String(), "from", previous.String(), "to", agentID.String(), "actor_id", actor.ID.String())
	s.publish(ctx, events.LeadAssigned{
		BaseEvent:     events.NewBaseEvent(s.now()),
		LeadID:        leadID,
		PreviousAgent: previous,
		NewAgent:      agentID,
		AssignedByID:  actor.ID,
	})
	return updated, nil
}

// UpdateProbability records an operator's probability estimate. This is the
// only write path for probability; stage changes never touch it.
func (s *Service) UpdateProbability(ctx context.Context, leadID uuid.UUID, probability int, actor rbac.Principal) (domain.Lead, error) {
	const op = "leads.probability"

	if !domain.ValidProbability(probability) {
		return domain.Lead{}, s.reject(op, actor, apperr.Validation("probability must be between 0 and 100"))
	}
	updated, err := s.repo.UpdateLead(ctx, leadID, func(lead *domain.Lead) (bool, error) {
		if !domain.CanWorkPipeline(actor, *lead) {
			return false, apperr.Forbidden("not allowed to edit this lead")
		}
		if domain.IsTerminal(lead.Stage) {
			return false, apperr.InvalidTransition("closed leads are read-only")
		}
		if lead.Probability == probability {
			return false, nil
		}
		lead.Probability = probability
		return true, nil
	})
	if err != nil {
		return domain.Lead{}, s.reject(op, actor, mapRepoError(err))
	}
	return updated, nil
}

func (s *Service) checkAssignee(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperr.Validation("assignee is required")
	}
	if s.principals == nil {
		return nil
	}
	p, ok := s.principals.Lookup(ctx, id)
	if !ok {
		return apperr.Validation("unknown assignee")
	}
	if !p.Can(rbac.EditLeadOwnPipeline) {
		return apperr.Validation("assignee cannot work leads")
	}
	return nil
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

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(apperr.KindInternal, "lead store failure", err)
}
