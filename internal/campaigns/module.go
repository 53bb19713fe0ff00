// Package campaigns provides the campaigns domain module: process
// assignment and the auto-send gate.
package campaigns

import (
	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/campaigns/handler"
	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/campaigns/service"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the campaigns domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new campaigns module with all dependencies wired.
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
	return "campaigns"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	campaigns := ctx.Protected.Group("/campaigns")
	m.handler.RegisterRoutes(campaigns)
}
