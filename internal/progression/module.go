// Package progression provides the lead progression module: idempotent
// event ingestion, per-lead wave tracking, and process reassignment.
package progression

import (
	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/progression/handler"
	"outreach_backend/internal/progression/repository"
	"outreach_backend/internal/progression/service"
	"outreach_backend/platform/events"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module represents the lead progression domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new progression module with all dependencies wired.
// redisClient and enqueuer are optional; without them the module still
// applies every event synchronously against the database.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, enqueuer handler.Enqueuer, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)

	var dedupe *repository.DedupeCache
	if redisClient != nil {
		dedupe = repository.NewDedupeCache(redisClient)
	}

	svc := service.New(repo, dedupe, log)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, enqueuer, val, log)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "progression"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterWebhookRoutes(ctx.Webhooks.Group("/progression"))
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}
