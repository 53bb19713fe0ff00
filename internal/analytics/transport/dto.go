// Package transport defines the request/response DTOs for analytics.
package transport

import (
	"time"

	"outreach_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

// ── Webhook payloads ──────────────────────────────────────────────────────────

// SequenceStepDelivery is one follow-up step record from the sequence
// history provider.
type SequenceStepDelivery struct {
	SequenceID uuid.UUID `json:"sequenceId" validate:"required"`
	StepIndex  int       `json:"stepIndex" validate:"min=0"`
	SentAt     time.Time `json:"sentAt" validate:"required"`
	Engaged    bool      `json:"engaged"`
}

// SequenceHistoryEvent delivers a lead's follow-up history so the booking
// can be attributed. Complete=false marks the resulting attribution
// provisional.
type SequenceHistoryEvent struct {
	WorkspaceID uuid.UUID              `json:"workspaceId" validate:"required"`
	LeadID      uuid.UUID              `json:"leadId" validate:"required"`
	Complete    bool                   `json:"complete"`
	Steps       []SequenceStepDelivery `json:"steps" validate:"dive"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// MetricsResponse is the recomputed aggregate for one process.
type MetricsResponse struct {
	BookingProcessID   uuid.UUID   `json:"bookingProcessId"`
	LeadsProcessed     int         `json:"leadsProcessed"`
	LeadsBooked        int         `json:"leadsBooked"`
	BookingRate        float64     `json:"bookingRate"`
	AvgOutboundsToBook float64     `json:"avgOutboundsToBook"`
	DropoffByWave      map[int]int `json:"dropoffByWave"`
	RankEligible       bool        `json:"rankEligible"`
}

// ComparisonResponse ranks all processes in the workspace.
type ComparisonResponse struct {
	Processes     []MetricsResponse `json:"processes"`
	BestPerformer *uuid.UUID        `json:"bestPerformer,omitempty"`
}

// SequenceAttributionResponse is one sequence's share of bookings.
type SequenceAttributionResponse struct {
	SequenceID  uuid.UUID `json:"sequenceId"`
	BookedCount int       `json:"bookedCount"`
	Percentage  float64   `json:"percentage"`
}

// AttributionSummaryResponse is the attribution rollup for a window.
type AttributionSummaryResponse struct {
	BySequence        []SequenceAttributionResponse `json:"bySequence"`
	UnattributedCount int                           `json:"unattributedCount"`
	TotalBookings     int                           `json:"totalBookings"`
}

// AttributionResponse reports the stored attribution of one booking.
type AttributionResponse struct {
	LeadID      uuid.UUID  `json:"leadId"`
	Attributed  bool       `json:"attributed"`
	Provisional bool       `json:"provisional"`
	SequenceID  *uuid.UUID `json:"sequenceId,omitempty"`
	StepIndex   *int       `json:"stepIndex,omitempty"`
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

// FromMetrics converts domain metrics into the API response.
func FromMetrics(m domain.ProcessMetrics) MetricsResponse {
	return MetricsResponse{
		BookingProcessID:   m.BookingProcessID,
		LeadsProcessed:     m.LeadsProcessed,
		LeadsBooked:        m.LeadsBooked,
		BookingRate:        m.BookingRate,
		AvgOutboundsToBook: m.AvgOutboundsToBook,
		DropoffByWave:      m.DropoffByWave,
		RankEligible:       m.LeadsProcessed >= domain.MinSampleSize,
	}
}

// FromAttributionSummary converts the domain rollup into the API response.
func FromAttributionSummary(s domain.AttributionSummary) AttributionSummaryResponse {
	out := AttributionSummaryResponse{
		BySequence:        make([]SequenceAttributionResponse, len(s.BySequence)),
		UnattributedCount: s.UnattributedCount,
		TotalBookings:     s.TotalBookings,
	}
	for i, group := range s.BySequence {
		out.BySequence[i] = SequenceAttributionResponse{
			SequenceID:  group.SequenceID,
			BookedCount: group.BookedCount,
			Percentage:  group.Percentage,
		}
	}
	return out
}

// ToDomainSteps converts delivered steps into domain sequence steps.
func ToDomainSteps(steps []SequenceStepDelivery) []domain.SequenceStep {
	out := make([]domain.SequenceStep, len(steps))
	for i, s := range steps {
		out[i] = domain.SequenceStep{
			SequenceID: s.SequenceID,
			StepIndex:  s.StepIndex,
			SentAt:     s.SentAt,
			Engaged:    s.Engaged,
		}
	}
	return out
}
