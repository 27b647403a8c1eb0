// Package properties provides the property records bounded context module.
package properties

import (
	"estate_dashboard_backend/internal/events"
	apphttp "estate_dashboard_backend/internal/http"
	"estate_dashboard_backend/internal/properties/handler"
	"estate_dashboard_backend/internal/properties/repository"
	"estate_dashboard_backend/internal/properties/service"
	"estate_dashboard_backend/platform/logger"
	"estate_dashboard_backend/platform/validator"
)

// Module is the properties bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	service *service.Service
}

func NewModule(repo *repository.Repository, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		repo:    repo,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "properties"
}

func (m *Module) Repository() *repository.Repository {
	return m.repo
}

func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts property routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/properties"))
}

var _ apphttp.Module = (*Module)(nil)
