// Package transport defines the request/response DTOs for the progression
// module, including the webhook event payloads delivered by the outreach
// sending pipeline.
package transport

import (
	"time"

	"outreach_backend/internal/progression/repository"

	"github.com/google/uuid"
)

// ── Webhook payloads ──────────────────────────────────────────────────────────

// OutboundSentEvent reports one outbound message delivery. EventID is the
// sender's idempotency key; redeliveries with the same id are no-ops.
type OutboundSentEvent struct {
	EventID          string    `json:"eventId" validate:"required,max=128"`
	WorkspaceID      uuid.UUID `json:"workspaceId" validate:"required"`
	LeadID           uuid.UUID `json:"leadId" validate:"required"`
	BookingProcessID uuid.UUID `json:"bookingProcessId" validate:"required"`
	Wave             int       `json:"wave" validate:"required,min=1"`
	Channel          string    `json:"channel" validate:"required,oneof=email sms linkedin"`
	ChannelAddress   string    `json:"channelAddress" validate:"omitempty,max=320"`
	OccurredAt       time.Time `json:"occurredAt" validate:"required"`
}

// BookedEvent reports that a lead booked a meeting.
type BookedEvent struct {
	EventID          string    `json:"eventId" validate:"required,max=128"`
	WorkspaceID      uuid.UUID `json:"workspaceId" validate:"required"`
	LeadID           uuid.UUID `json:"leadId" validate:"required"`
	BookingProcessID uuid.UUID `json:"bookingProcessId" validate:"required"`
	BookedAt         time.Time `json:"bookedAt" validate:"required"`
}

// ── Requests ──────────────────────────────────────────────────────────────────

// ReassignRequest moves a lead to a different booking process. The old
// tracker record is archived and a fresh one starts at wave 1.
type ReassignRequest struct {
	BookingProcessID uuid.UUID `json:"bookingProcessId" validate:"required"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// IngestResponse reports what an event delivery did.
type IngestResponse struct {
	Applied       bool   `json:"applied"`
	AlreadyBooked bool   `json:"alreadyBooked,omitempty"`
	Duplicate     bool   `json:"duplicate,omitempty"`
	EventID       string `json:"eventId"`
}

// ProgressResponse is the API view of a lead's tracker state.
type ProgressResponse struct {
	LeadID           uuid.UUID  `json:"leadId"`
	BookingProcessID uuid.UUID  `json:"bookingProcessId"`
	CurrentWave      int        `json:"currentWave"`
	OutboundCount    int        `json:"outboundCount"`
	BookedAt         *time.Time `json:"bookedAt,omitempty"`
	LastActivityWave int        `json:"lastActivityWave"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// FromRecord converts a tracker record into the API response.
func FromRecord(r repository.ProgressRecord) ProgressResponse {
	return ProgressResponse{
		LeadID:           r.LeadID,
		BookingProcessID: r.BookingProcessID,
		CurrentWave:      r.CurrentWave,
		OutboundCount:    r.OutboundCount,
		BookedAt:         r.BookedAt,
		LastActivityWave: r.LastActivityWave,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
