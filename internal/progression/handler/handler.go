package handler

import (
	"context"
	"net/http"

	"outreach_backend/internal/progression/service"
	"outreach_backend/internal/progression/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Enqueuer hands progression events to the background worker. The handler
// falls back to synchronous processing when enqueueing fails, so webhook
// deliveries are never lost to a broker outage.
type Enqueuer interface {
	EnqueueOutboundSent(ctx context.Context, evt transport.OutboundSentEvent) error
	EnqueueBooked(ctx context.Context, evt transport.BookedEvent) error
}

// Handler handles webhook ingestion and tracker reads for lead progression.
type Handler struct {
	svc      *service.Service
	enqueuer Enqueuer
	val      *validator.Validator
	log      *logger.Logger
}

// New creates a new progression handler. enqueuer may be nil, in which case
// every event is applied synchronously.
func New(svc *service.Service, enqueuer Enqueuer, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, enqueuer: enqueuer, val: val, log: log}
}

// RegisterWebhookRoutes registers the inbound event delivery routes.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/events/outbound-sent", h.IngestOutbound)
	rg.POST("/events/booked", h.IngestBooked)
}

// RegisterRoutes registers the authenticated tracker routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:leadId/progress", h.GetProgress)
	rg.POST("/:leadId/reassign", h.Reassign)
}

func (h *Handler) IngestOutbound(c *gin.Context) {
	var evt transport.OutboundSentEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(evt); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if h.enqueuer != nil {
		err := h.enqueuer.EnqueueOutboundSent(c.Request.Context(), evt)
		if err == nil {
			httpkit.JSON(c, http.StatusAccepted, transport.IngestResponse{EventID: evt.EventID})
			return
		}
		h.log.Warn("enqueue failed, applying synchronously", "error", err)
	}

	result, err := h.svc.IngestOutbound(c.Request.Context(), evt.WorkspaceID, evt)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) IngestBooked(c *gin.Context) {
	var evt transport.BookedEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(evt); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if h.enqueuer != nil {
		err := h.enqueuer.EnqueueBooked(c.Request.Context(), evt)
		if err == nil {
			httpkit.JSON(c, http.StatusAccepted, transport.IngestResponse{EventID: evt.EventID})
			return
		}
		h.log.Warn("enqueue failed, applying synchronously", "error", err)
	}

	result, err := h.svc.IngestBooked(c.Request.Context(), evt.WorkspaceID, evt)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetProgress(c *gin.Context) {
	workspaceID, ok := httpkit.MustGetWorkspaceID(c)
	if !ok {
		return
	}
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetProgress(c.Request.Context(), workspaceID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Reassign(c *gin.Context) {
	workspaceID, ok := httpkit.MustGetWorkspaceID(c)
	if !ok {
		return
	}
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Reassign(c.Request.Context(), workspaceID, leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseLeadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, false
	}
	return id, true
}
