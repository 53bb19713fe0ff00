// Package domain provides core business rules for the campaigns bounded
// context: response modes and the auto-send gate.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ResponseMode controls who answers inbound replies on a campaign.
type ResponseMode string

const (
	// ResponseModeSetterManaged routes every draft to a human setter.
	ResponseModeSetterManaged ResponseMode = "SETTER_MANAGED"
	// ResponseModeAIAutoSend allows AI drafts to be sent without review
	// when the gate passes.
	ResponseModeAIAutoSend ResponseMode = "AI_AUTO_SEND"
)

// IsKnownResponseMode reports whether the mode value is one we understand.
func IsKnownResponseMode(mode ResponseMode) bool {
	return mode == ResponseModeSetterManaged || mode == ResponseModeAIAutoSend
}

// Campaign binds a campaign to a booking process and an AI response mode.
type Campaign struct {
	ID                          uuid.UUID
	WorkspaceID                 uuid.UUID
	Name                        string
	BookingProcessID            *uuid.UUID
	ResponseMode                ResponseMode
	AutoSendConfidenceThreshold float64
}

// EvaluatorResult is the safety verdict the draft evaluator produced for a
// single AI-drafted reply.
type EvaluatorResult struct {
	SafeToSend bool
	Confidence float64
}

// IsAutoSendEligible is the pure gate the dispatch subsystem consults before
// sending an AI draft without human review. When it returns false the draft
// is routed to a human instead; the gate itself has no side effects.
func IsAutoSendEligible(c Campaign, eval EvaluatorResult) bool {
	return c.ResponseMode == ResponseModeAIAutoSend &&
		eval.SafeToSend &&
		eval.Confidence >= c.AutoSendConfidenceThreshold
}

// ValidateThreshold checks the auto-send confidence threshold at write time.
// Out-of-range values are rejected, never clamped, so misconfiguration is
// visible to the operator.
func ValidateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("autoSendConfidenceThreshold: must be within [0,1], got %v", threshold)
	}
	return nil
}
