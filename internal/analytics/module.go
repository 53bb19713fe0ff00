// Package analytics provides the analytics domain module: on-demand
// recomputation of booking process metrics and booking attribution.
package analytics

import (
	"outreach_backend/internal/analytics/handler"
	"outreach_backend/internal/analytics/repository"
	"outreach_backend/internal/analytics/service"
	apphttp "outreach_backend/internal/http"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the analytics domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new analytics module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "analytics"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/analytics"))
	m.handler.RegisterWebhookRoutes(ctx.Webhooks.Group("/analytics"))
}
