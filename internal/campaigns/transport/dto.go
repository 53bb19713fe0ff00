// Package transport defines the request/response DTOs for the campaigns
// module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateCampaignRequest is the request body for creating a campaign.
type CreateCampaignRequest struct {
	Name                        string     `json:"name" validate:"required,min=1,max=200"`
	BookingProcessID            *uuid.UUID `json:"bookingProcessId"`
	ResponseMode                string     `json:"responseMode" validate:"required,oneof=SETTER_MANAGED AI_AUTO_SEND"`
	AutoSendConfidenceThreshold float64    `json:"autoSendConfidenceThreshold"`
}

// UpdateCampaignRequest is the request body for editing a campaign.
type UpdateCampaignRequest struct {
	Name                        string     `json:"name" validate:"required,min=1,max=200"`
	BookingProcessID            *uuid.UUID `json:"bookingProcessId"`
	ResponseMode                string     `json:"responseMode" validate:"required,oneof=SETTER_MANAGED AI_AUTO_SEND"`
	AutoSendConfidenceThreshold float64    `json:"autoSendConfidenceThreshold"`
}

// AutoSendCheckRequest carries the evaluator verdict for one AI draft.
type AutoSendCheckRequest struct {
	SafeToSend bool    `json:"safeToSend"`
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`
}

// AutoSendCheckResponse is the gate decision for the dispatch subsystem.
type AutoSendCheckResponse struct {
	Eligible bool `json:"eligible"`
}

// CampaignResponse is the API representation of a campaign.
type CampaignResponse struct {
	ID                          uuid.UUID  `json:"id"`
	Name                        string     `json:"name"`
	BookingProcessID            *uuid.UUID `json:"bookingProcessId,omitempty"`
	ResponseMode                string     `json:"responseMode"`
	AutoSendConfidenceThreshold float64    `json:"autoSendConfidenceThreshold"`
	CreatedAt                   time.Time  `json:"createdAt"`
	UpdatedAt                   time.Time  `json:"updatedAt"`
}
