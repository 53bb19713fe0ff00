// Package transport defines the request/response DTOs for the booking
// process module.
package transport

import (
	"time"

	"outreach_backend/internal/process/domain"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// StageRequest is the input for a single wave definition.
type StageRequest struct {
	StageNumber                int         `json:"stageNumber" validate:"required,min=1"`
	ChannelEmail               bool        `json:"channelEmail"`
	ChannelSMS                 bool        `json:"channelSms"`
	ChannelLinkedIn            bool        `json:"channelLinkedin"`
	IncludeBookingLink         bool        `json:"includeBookingLink"`
	LinkType                   string      `json:"linkType" validate:"omitempty,oneof=plain_url hyperlinked_text"`
	IncludeSuggestedTimes      bool        `json:"includeSuggestedTimes"`
	SuggestedTimeCount         int         `json:"suggestedTimeCount" validate:"omitempty,min=2,max=4"`
	IncludeQualifyingQuestions bool        `json:"includeQualifyingQuestions"`
	QuestionIDs                []uuid.UUID `json:"questionIds"`
	IncludeTimezoneAsk         bool        `json:"includeTimezoneAsk"`
}

// CreateProcessRequest is the request body for creating a booking process.
type CreateProcessRequest struct {
	Name                     string         `json:"name" validate:"required,min=1,max=200"`
	Description              string         `json:"description" validate:"max=2000"`
	MaxWavesBeforeEscalation int            `json:"maxWavesBeforeEscalation" validate:"required,min=1"`
	Stages                   []StageRequest `json:"stages" validate:"required,min=1,dive"`
}

// UpdateProcessRequest is the request body for replacing a booking process
// definition. Stages are renumbered contiguously on every write.
type UpdateProcessRequest struct {
	Name                     string         `json:"name" validate:"required,min=1,max=200"`
	Description              string         `json:"description" validate:"max=2000"`
	MaxWavesBeforeEscalation int            `json:"maxWavesBeforeEscalation" validate:"required,min=1"`
	Stages                   []StageRequest `json:"stages" validate:"required,min=1,dive"`
}

// ResolvePolicyRequest asks for the effective content policy of one wave on
// one channel. LeadID is optional; when present, escalation resolutions are
// published for hand-off.
type ResolvePolicyRequest struct {
	Wave    int        `json:"wave" validate:"required,min=1"`
	Channel string     `json:"channel" validate:"required,oneof=email sms linkedin"`
	LeadID  *uuid.UUID `json:"leadId"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// StageResponse describes one wave of a process.
type StageResponse struct {
	StageNumber                int         `json:"stageNumber"`
	ChannelEmail               bool        `json:"channelEmail"`
	ChannelSMS                 bool        `json:"channelSms"`
	ChannelLinkedIn            bool        `json:"channelLinkedin"`
	IncludeBookingLink         bool        `json:"includeBookingLink"`
	LinkType                   string      `json:"linkType,omitempty"`
	IncludeSuggestedTimes      bool        `json:"includeSuggestedTimes"`
	SuggestedTimeCount         int         `json:"suggestedTimeCount,omitempty"`
	IncludeQualifyingQuestions bool        `json:"includeQualifyingQuestions"`
	QuestionIDs                []uuid.UUID `json:"questionIds,omitempty"`
	IncludeTimezoneAsk         bool        `json:"includeTimezoneAsk"`
}

// ProcessResponse is the API representation of a booking process.
type ProcessResponse struct {
	ID                       uuid.UUID       `json:"id"`
	Name                     string          `json:"name"`
	Description              string          `json:"description,omitempty"`
	MaxWavesBeforeEscalation int             `json:"maxWavesBeforeEscalation"`
	Stages                   []StageResponse `json:"stages"`
	CampaignCount            int             `json:"campaignCount"`
	CreatedAt                time.Time       `json:"createdAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

// QuestionResponse is a resolved qualifying question.
type QuestionResponse struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Required bool      `json:"required"`
}

// PolicyResponse is the resolved content decision for a wave/channel pair.
// Escalate=true means the lead must be handed to a human and no content
// fields are populated.
type PolicyResponse struct {
	Escalate                   bool               `json:"escalate"`
	Wave                       int                `json:"wave,omitempty"`
	Channel                    string             `json:"channel,omitempty"`
	IncludeBookingLink         bool               `json:"includeBookingLink"`
	LinkType                   string             `json:"linkType,omitempty"`
	IncludeSuggestedTimes      bool               `json:"includeSuggestedTimes"`
	SuggestedTimeCount         int                `json:"suggestedTimeCount,omitempty"`
	IncludeQualifyingQuestions bool               `json:"includeQualifyingQuestions"`
	Questions                  []QuestionResponse `json:"questions,omitempty"`
	IncludeTimezoneAsk         bool               `json:"includeTimezoneAsk"`
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

// ToDomainStages converts stage requests into domain stages.
func ToDomainStages(reqs []StageRequest) []domain.Stage {
	stages := make([]domain.Stage, len(reqs))
	for i, r := range reqs {
		stages[i] = domain.Stage{
			StageNumber: r.StageNumber,
			Channels: domain.ChannelSet{
				Email:    r.ChannelEmail,
				SMS:      r.ChannelSMS,
				LinkedIn: r.ChannelLinkedIn,
			},
			IncludeBookingLink:         r.IncludeBookingLink,
			LinkType:                   domain.LinkType(r.LinkType),
			IncludeSuggestedTimes:      r.IncludeSuggestedTimes,
			SuggestedTimeCount:         r.SuggestedTimeCount,
			IncludeQualifyingQuestions: r.IncludeQualifyingQuestions,
			QuestionIDs:                r.QuestionIDs,
			IncludeTimezoneAsk:         r.IncludeTimezoneAsk,
		}
	}
	return stages
}

// FromDomainStages converts domain stages into response DTOs.
func FromDomainStages(stages []domain.Stage) []StageResponse {
	out := make([]StageResponse, len(stages))
	for i, s := range stages {
		out[i] = StageResponse{
			StageNumber:                s.StageNumber,
			ChannelEmail:               s.Channels.Email,
			ChannelSMS:                 s.Channels.SMS,
			ChannelLinkedIn:            s.Channels.LinkedIn,
			IncludeBookingLink:         s.IncludeBookingLink,
			LinkType:                   string(s.LinkType),
			IncludeSuggestedTimes:      s.IncludeSuggestedTimes,
			SuggestedTimeCount:         s.SuggestedTimeCount,
			IncludeQualifyingQuestions: s.IncludeQualifyingQuestions,
			QuestionIDs:                s.QuestionIDs,
			IncludeTimezoneAsk:         s.IncludeTimezoneAsk,
		}
	}
	return out
}

// FromResolution converts a domain resolution into the API response.
func FromResolution(res domain.Resolution) PolicyResponse {
	if res.Escalate {
		return PolicyResponse{Escalate: true}
	}

	questions := make([]QuestionResponse, len(res.Policy.Questions))
	for i, q := range res.Policy.Questions {
		questions[i] = QuestionResponse{ID: q.ID, Text: q.Text, Required: q.Required}
	}

	return PolicyResponse{
		Wave:                       res.Policy.Wave,
		Channel:                    string(res.Policy.Channel),
		IncludeBookingLink:         res.Policy.IncludeBookingLink,
		LinkType:                   string(res.Policy.LinkType),
		IncludeSuggestedTimes:      res.Policy.IncludeSuggestedTimes,
		SuggestedTimeCount:         res.Policy.SuggestedTimeCount,
		IncludeQualifyingQuestions: res.Policy.IncludeQualifyingQuestions,
		Questions:                  questions,
		IncludeTimezoneAsk:         res.Policy.IncludeTimezoneAsk,
	}
}
