// Package process provides the booking process domain module: the wave
// model, policy resolution, and process management endpoints.
package process

import (
	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/process/handler"
	"outreach_backend/internal/process/repository"
	"outreach_backend/internal/process/service"
	"outreach_backend/platform/events"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the booking process domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new booking process module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, questions service.QuestionDirectory, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, questions, log)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "process"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	processes := ctx.Protected.Group("/booking-processes")
	m.handler.RegisterRoutes(processes)
}
