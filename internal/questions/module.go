// Package questions provides the workspace question registry module.
package questions

import (
	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/questions/handler"
	"outreach_backend/internal/questions/repository"
	"outreach_backend/internal/questions/service"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the question registry domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new question registry module with all dependencies wired.
// The stage reference checker is injected afterwards via Service().SetReferenceChecker
// because the process module depends on this module's directory in turn.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "questions"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	questions := ctx.Protected.Group("/questions")
	m.handler.RegisterRoutes(questions)
}
