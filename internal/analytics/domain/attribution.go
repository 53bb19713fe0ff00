// Package domain provides the pure analytics computations: booking
// attribution and per-process metric aggregation.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SequenceStep is one follow-up sequence step sent to a lead, with the
// engagement signal (reply or click) supplied by the follow-up subsystem.
type SequenceStep struct {
	SequenceID uuid.UUID
	StepIndex  int
	SentAt     time.Time
	Engaged    bool
}

// Attribution is the credit assignment for one booking. Attributed=false
// means the booking came from outside the follow-up workflow. Provisional
// marks results computed over an incomplete history; they must not be
// treated as final.
type Attribution struct {
	Attributed  bool
	Provisional bool
	SequenceID  uuid.UUID
	StepIndex   int
}

// Attribute assigns a booking to the first-touch sequence step: the
// earliest step (lowest index, ties broken by earliest send time) sent
// strictly before bookedAt that engaged the lead. When no step engaged,
// the earliest step before bookedAt gets the credit. Steps sent at or
// after bookedAt are never candidates. The history may be supplied in any
// order; complete=false marks the result provisional.
func Attribute(bookedAt time.Time, history []SequenceStep, complete bool) Attribution {
	var best *SequenceStep
	var bestEngaged *SequenceStep
	for i := range history {
		step := &history[i]
		if !step.SentAt.Before(bookedAt) {
			continue
		}
		if earlier(step, best) {
			best = step
		}
		if step.Engaged && earlier(step, bestEngaged) {
			bestEngaged = step
		}
	}

	winner := bestEngaged
	if winner == nil {
		winner = best
	}
	if winner == nil {
		return Attribution{Provisional: !complete}
	}
	return Attribution{
		Attributed:  true,
		Provisional: !complete,
		SequenceID:  winner.SequenceID,
		StepIndex:   winner.StepIndex,
	}
}

func earlier(candidate, current *SequenceStep) bool {
	if current == nil {
		return true
	}
	if candidate.StepIndex != current.StepIndex {
		return candidate.StepIndex < current.StepIndex
	}
	return candidate.SentAt.Before(current.SentAt)
}
