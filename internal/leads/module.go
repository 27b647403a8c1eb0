// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"

	"estate_dashboard_backend/internal/events"
	apphttp "estate_dashboard_backend/internal/http"
	"estate_dashboard_backend/internal/leads/forecast"
	"estate_dashboard_backend/internal/leads/handler"
	"estate_dashboard_backend/internal/leads/management"
	"estate_dashboard_backend/internal/leads/repository"
	"estate_dashboard_backend/internal/leads/scheduling"
	"estate_dashboard_backend/internal/leads/transport"
	"estate_dashboard_backend/platform/logger"
	"estate_dashboard_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	repo       *repository.Repository
	management *management.Service
	scheduling *scheduling.Service
	forecast   *forecast.Service
}

// NewModule creates the leads module around a shared repository.
func NewModule(repo *repository.Repository, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := transport.RegisterValidations(val); err != nil {
		return nil, err
	}

	// Create focused services (vertical slices)
	mgmtSvc := management.New(repo, eventBus, log)
	schedulingSvc := scheduling.New(repo, eventBus, log)
	forecastSvc := forecast.New(repo)

	subscribeActivityLog(eventBus, log)

	return &Module{
		handler:    handler.New(mgmtSvc, schedulingSvc, forecastSvc, val),
		repo:       repo,
		management: mgmtSvc,
		scheduling: schedulingSvc,
		forecast:   forecastSvc,
	}, nil
}

// subscribeActivityLog records reassignment and reopen events, the two
// corrections managers make on behalf of agents.
func subscribeActivityLog(eventBus events.Bus, log *logger.Logger) {
	if eventBus == nil || log == nil {
		return
	}
	eventBus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadAssigned)
		if !ok {
			return nil
		}
		log.Info("lead reassigned", "leadId", e.LeadID, "from", e.PreviousAgent, "to", e.NewAgent, "by", e.AssignedByID)
		return nil
	}))
	eventBus.Subscribe(events.LeadReopened{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadReopened)
		if !ok {
			return nil
		}
		log.Info("lead reopened", "leadId", e.LeadID, "from", e.OldStage, "to", e.NewStage, "by", e.ActorID, "reason", e.Reason)
		return nil
	}))
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository returns the shared lead store.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// SchedulingService returns the follow-up scheduling service for external use.
func (m *Module) SchedulingService() *scheduling.Service {
	return m.scheduling
}

// ForecastService returns the pipeline aggregate service.
func (m *Module) ForecastService() *forecast.Service {
	return m.forecast
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require an active session
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
