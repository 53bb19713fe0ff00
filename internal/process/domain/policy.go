package domain

import (
	"sort"

	"github.com/google/uuid"
)

// smsQuestionCap is the hard ceiling on qualifying questions for SMS.
// Required questions are a floor and may exceed the cap.
const smsQuestionCap = 2

// ResolvePolicy determines the effective content policy for one wave on one
// channel. It is a pure function of its inputs and deterministic, so the
// same resolution can be replayed for back-testing.
//
// Rules, in order:
//   - waves past the escalation ceiling resolve to an escalation signal and
//     no content decision is made;
//   - waves past the last defined stage reuse the last stage (process
//     content does not run out);
//   - a stage whose channel applicability excludes the requested channel
//     yields a policy with every content flag forced off; the wave is a
//     no-op for that channel and the caller falls through to a generic
//     message;
//   - SMS never renders hyperlinked text, and caps the question count.
//
// registry is the workspace's qualification questions; only questions the
// stage references are selected.
func ResolvePolicy(p BookingProcess, wave int, ch Channel, registry []QualificationQuestion) Resolution {
	if wave < 1 {
		wave = 1
	}

	if wave > p.MaxWavesBeforeEscalation {
		return Resolution{Escalate: true}
	}

	stage := stageForWave(p, wave)

	policy := EffectivePolicy{Wave: wave, Channel: ch}
	if !stage.Channels.Has(ch) {
		return Resolution{Policy: policy}
	}

	policy.IncludeBookingLink = stage.IncludeBookingLink
	if stage.IncludeBookingLink {
		policy.LinkType = stage.LinkType
		if ch == ChannelSMS {
			// Hyperlinked text is disallowed on SMS.
			policy.LinkType = LinkTypePlainURL
		}
	}

	policy.IncludeSuggestedTimes = stage.IncludeSuggestedTimes
	if stage.IncludeSuggestedTimes {
		policy.SuggestedTimeCount = stage.SuggestedTimeCount
	}

	policy.IncludeTimezoneAsk = stage.IncludeTimezoneAsk

	if stage.IncludeQualifyingQuestions {
		policy.Questions = selectQuestions(stage, ch, registry)
		policy.IncludeQualifyingQuestions = len(policy.Questions) > 0
	}

	return Resolution{Policy: policy}
}

// stageForWave returns the stage for the given wave, clamped to the last
// defined stage. Callers guarantee at least one stage (write-time rule).
func stageForWave(p BookingProcess, wave int) Stage {
	if len(p.Stages) == 0 {
		return Stage{}
	}
	if wave > len(p.Stages) {
		return p.Stages[len(p.Stages)-1]
	}
	return p.Stages[wave-1]
}

// selectQuestions builds the ordered question set for a stage on a channel:
// required questions first in registry order, then non-required questions in
// stage order, bounded by the channel cap. Required questions are a hard
// floor and are never evicted by the cap.
func selectQuestions(stage Stage, ch Channel, registry []QualificationQuestion) []QualificationQuestion {
	lookup := make(map[uuid.UUID]QualificationQuestion, len(registry))
	for _, q := range registry {
		lookup[q.ID] = q
	}

	var required, optional []QualificationQuestion
	for _, id := range stage.QuestionIDs {
		q, ok := lookup[id]
		if !ok {
			// Unknown references are rejected at write time; a dangling id
			// here is a data-quality condition and is skipped, not raised.
			continue
		}
		if q.Required {
			required = append(required, q)
		} else {
			optional = append(optional, q)
		}
	}

	// Registry order for the required block; optional stays in stage order.
	sort.SliceStable(required, func(i, j int) bool {
		return required[i].Position < required[j].Position
	})

	limit := len(stage.QuestionIDs)
	if ch == ChannelSMS {
		limit = smsQuestionCap
	}

	selected := make([]QualificationQuestion, 0, len(required)+len(optional))
	selected = append(selected, required...)
	for _, q := range optional {
		if len(selected) >= limit {
			break
		}
		selected = append(selected, q)
	}

	return selected
}
