package events

import (
	platformevents "outreach_backend/platform/events"

	"github.com/google/uuid"
)

// Event names shared between modules.
const (
	EventLeadEscalated = "outreach.lead.escalated"
	EventLeadBooked    = "outreach.lead.booked"
)

// LeadEscalated fires when a policy resolution crosses the escalation
// ceiling and the lead must be handed to a human.
type LeadEscalated struct {
	platformevents.BaseEvent
	WorkspaceID      uuid.UUID `json:"workspaceId"`
	LeadID           uuid.UUID `json:"leadId"`
	BookingProcessID uuid.UUID `json:"bookingProcessId"`
	Wave             int       `json:"wave"`
}

// EventName returns the event identifier.
func (LeadEscalated) EventName() string { return EventLeadEscalated }

// LeadBooked fires when a booking event is applied for the first time.
type LeadBooked struct {
	platformevents.BaseEvent
	WorkspaceID      uuid.UUID `json:"workspaceId"`
	LeadID           uuid.UUID `json:"leadId"`
	BookingProcessID uuid.UUID `json:"bookingProcessId"`
	OutboundCount    int       `json:"outboundCount"`
}

// EventName returns the event identifier.
func (LeadBooked) EventName() string { return EventLeadBooked }
