package domain

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const (
	// MinSuggestedTimes and MaxSuggestedTimes bound how many time slots a
	// stage may offer.
	MinSuggestedTimes = 2
	MaxSuggestedTimes = 4
)

// RenumberStages returns a copy of the stages sorted by stage number and
// renumbered contiguously from 1. Ties keep their relative input order, so
// inserting a stage with a duplicate number places it before the stages it
// displaces. The input slice is not modified.
func RenumberStages(stages []Stage) []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StageNumber < out[j].StageNumber
	})

	for i := range out {
		out[i].StageNumber = i + 1
	}
	return out
}

// ValidateProcess checks the write-time configuration rules for a booking
// process. knownQuestions is the set of question ids in the workspace
// registry. Errors name the offending field; nothing is silently corrected.
func ValidateProcess(p BookingProcess, knownQuestions map[uuid.UUID]bool) error {
	if p.Name == "" {
		return fmt.Errorf("name: must not be empty")
	}
	if p.MaxWavesBeforeEscalation < 1 {
		return fmt.Errorf("maxWavesBeforeEscalation: must be a positive integer")
	}
	if len(p.Stages) == 0 {
		return fmt.Errorf("stages: a process must contain at least one stage")
	}

	for i, stage := range p.Stages {
		if err := validateStage(stage, knownQuestions); err != nil {
			return fmt.Errorf("stages[%d].%w", i, err)
		}
	}

	for i, stage := range p.Stages {
		if stage.StageNumber != i+1 {
			return fmt.Errorf("stages[%d].stageNumber: expected %d, got %d (stages must be contiguous from 1)", i, i+1, stage.StageNumber)
		}
	}

	return nil
}

func validateStage(stage Stage, knownQuestions map[uuid.UUID]bool) error {
	if !stage.Channels.Any() {
		return fmt.Errorf("channelApplicability: at least one channel must be applicable")
	}

	if stage.IncludeBookingLink {
		switch stage.LinkType {
		case LinkTypePlainURL, LinkTypeHyperlinkedText:
		default:
			return fmt.Errorf("linkType: unknown value %q", stage.LinkType)
		}
	}

	if stage.IncludeSuggestedTimes {
		if stage.SuggestedTimeCount < MinSuggestedTimes || stage.SuggestedTimeCount > MaxSuggestedTimes {
			return fmt.Errorf("suggestedTimeCount: must be between %d and %d, got %d", MinSuggestedTimes, MaxSuggestedTimes, stage.SuggestedTimeCount)
		}
	}

	if stage.IncludeQualifyingQuestions {
		if len(stage.QuestionIDs) == 0 {
			return fmt.Errorf("questionIds: must not be empty when qualifying questions are included")
		}
		seen := make(map[uuid.UUID]bool, len(stage.QuestionIDs))
		for _, id := range stage.QuestionIDs {
			if seen[id] {
				return fmt.Errorf("questionIds: duplicate reference %s", id)
			}
			seen[id] = true
			if !knownQuestions[id] {
				return fmt.Errorf("questionIds: unknown question %s", id)
			}
		}
	}

	return nil
}
