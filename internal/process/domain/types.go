// Package domain provides core business rules for the booking-process
// bounded context: the stage/wave model and the per-wave policy resolver.
package domain

import "github.com/google/uuid"

// Channel is an outreach channel a stage can apply to.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelLinkedIn Channel = "linkedin"
)

// IsKnownChannel reports whether the channel value is one we understand.
func IsKnownChannel(ch Channel) bool {
	switch ch {
	case ChannelEmail, ChannelSMS, ChannelLinkedIn:
		return true
	}
	return false
}

// LinkType controls how a booking link is rendered in outbound content.
type LinkType string

const (
	LinkTypePlainURL        LinkType = "plain_url"
	LinkTypeHyperlinkedText LinkType = "hyperlinked_text"
)

// QualificationQuestion is a workspace-level question stages reference by id.
// Position is the question's place in the registry ordering.
type QualificationQuestion struct {
	ID       uuid.UUID
	Text     string
	Required bool
	Position int
}

// ChannelSet holds the per-channel applicability flags of a stage.
type ChannelSet struct {
	Email    bool
	SMS      bool
	LinkedIn bool
}

// Has reports whether the set includes the given channel.
func (s ChannelSet) Has(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return s.Email
	case ChannelSMS:
		return s.SMS
	case ChannelLinkedIn:
		return s.LinkedIn
	}
	return false
}

// Any reports whether at least one channel is applicable.
func (s ChannelSet) Any() bool {
	return s.Email || s.SMS || s.LinkedIn
}

// Stage is one wave of a booking process: what content the lead is
// offered when the conversation reaches this wave.
type Stage struct {
	StageNumber                int
	Channels                   ChannelSet
	IncludeBookingLink         bool
	LinkType                   LinkType
	IncludeSuggestedTimes      bool
	SuggestedTimeCount         int
	IncludeQualifyingQuestions bool
	QuestionIDs                []uuid.UUID
	IncludeTimezoneAsk         bool
}

// BookingProcess is the named, reusable configuration of waves applied
// to leads of an assigned campaign. Stages are kept sorted and numbered
// contiguously from 1.
type BookingProcess struct {
	ID                       uuid.UUID
	WorkspaceID              uuid.UUID
	Name                     string
	Description              string
	MaxWavesBeforeEscalation int
	Stages                   []Stage
}

// EffectivePolicy is the resolved content decision for one (wave, channel)
// combination, after channel overrides.
type EffectivePolicy struct {
	Wave                       int
	Channel                    Channel
	IncludeBookingLink         bool
	LinkType                   LinkType
	IncludeSuggestedTimes      bool
	SuggestedTimeCount         int
	IncludeQualifyingQuestions bool
	Questions                  []QualificationQuestion
	IncludeTimezoneAsk         bool
}

// Resolution is the outcome of resolving a wave: either an effective policy
// or an escalation signal. Escalation is a valid terminal state, not an
// error; it means the lead must be handed to a human.
type Resolution struct {
	Escalate bool
	Policy   EffectivePolicy
}
