// Package domain provides core business rules for lead progression: the
// event-sourced wave state machine and its monotonicity invariants.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadProgress is the per-lead tracker state for one process assignment.
// CurrentWave and OutboundCount only ever grow; BookedAt is set once.
type LeadProgress struct {
	LeadID           uuid.UUID
	BookingProcessID uuid.UUID
	CurrentWave      int
	OutboundCount    int
	BookedAt         *time.Time
	LastActivityWave int
}

// NewLeadProgress returns the fresh tracker state for a lead entering a
// process at wave 1.
func NewLeadProgress(leadID, processID uuid.UUID) LeadProgress {
	return LeadProgress{
		LeadID:           leadID,
		BookingProcessID: processID,
		CurrentWave:      1,
	}
}

// OutboundSent is an outbound message event at a given wave.
type OutboundSent struct {
	Wave    int
	Channel string
	At      time.Time
}

// Booked is a booking event.
type Booked struct {
	At time.Time
}

// ApplyOutbound advances the tracker for one outbound send. The wave fields
// are monotonic: an event for an earlier wave still counts the outbound but
// never moves the tracker backwards.
func ApplyOutbound(p LeadProgress, e OutboundSent) LeadProgress {
	if e.Wave > p.CurrentWave {
		p.CurrentWave = e.Wave
	}
	if e.Wave > p.LastActivityWave {
		p.LastActivityWave = e.Wave
	}
	p.OutboundCount++
	return p
}

// ApplyBooked records the booking timestamp. The first booking wins;
// applied=false reports a duplicate so the caller can flag the anomaly
// instead of silently dropping it.
func ApplyBooked(p LeadProgress, e Booked) (LeadProgress, bool) {
	if p.BookedAt != nil {
		return p, false
	}
	at := e.At
	p.BookedAt = &at
	return p, true
}
