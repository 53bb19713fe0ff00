package handler

import (
	"net/http"
	"time"

	"outreach_backend/internal/analytics/repository"
	"outreach_backend/internal/analytics/service"
	"outreach_backend/internal/analytics/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidProcessID = "invalid process id"
	msgInvalidWindow    = "invalid time window"
)

// Handler handles analytics reads and sequence history delivery.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new analytics handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the authenticated analytics routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/processes", h.CompareProcesses)
	rg.GET("/processes/:id", h.ProcessMetrics)
	rg.GET("/attribution", h.AttributionSummary)
}

// RegisterWebhookRoutes registers the sequence history delivery route.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/sequence-history", h.IngestSequenceHistory)
}

func (h *Handler) ProcessMetrics(c *gin.Context) {
	workspaceID, ok := httpkit.MustGetWorkspaceID(c)
	if !ok {
		return
	}
	processID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidProcessID, nil)
		return
	}
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	result, err := h.svc.ProcessMetrics(c.Request.Context(), workspaceID, processID, window)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CompareProcesses(c *gin.Context) {
	workspaceID, ok := httpkit.MustGetWorkspaceID(c)
	if !ok {
		return
	}
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	result, err := h.svc.CompareProcesses(c.Request.Context(), workspaceID, window)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) AttributionSummary(c *gin.Context) {
	workspaceID, ok := httpkit.MustGetWorkspaceID(c)
	if !ok {
		return
	}
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	result, err := h.svc.AttributionSummary(c.Request.Context(), workspaceID, window)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) IngestSequenceHistory(c *gin.Context) {
	var evt transport.SequenceHistoryEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(evt); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ApplySequenceHistory(c.Request.Context(), evt)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// parseWindow reads optional RFC 3339 "from"/"to" query bounds.
func parseWindow(c *gin.Context) (repository.Window, bool) {
	var window repository.Window
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidWindow, "from must be RFC 3339")
			return repository.Window{}, false
		}
		window.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidWindow, "to must be RFC 3339")
			return repository.Window{}, false
		}
		window.To = t
	}
	if !window.From.IsZero() && !window.To.IsZero() && window.To.Before(window.From) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidWindow, "to precedes from")
		return repository.Window{}, false
	}
	return window, true
}
