package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRenumberStages_ContiguousAfterMutations(t *testing.T) {
	tests := []struct {
		name  string
		input []int // stage numbers as supplied
		want  []int
	}{
		{"already contiguous", []int{1, 2, 3}, []int{1, 2, 3}},
		{"gap after removal", []int{1, 3, 4}, []int{1, 2, 3}},
		{"unordered input", []int{3, 1, 2}, []int{1, 2, 3}},
		{"duplicate from insert", []int{1, 2, 2, 3}, []int{1, 2, 3, 4}},
		{"single stage", []int{7}, []int{1}},
		{"empty", nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stages := make([]Stage, len(tc.input))
			for i, n := range tc.input {
				stages[i] = Stage{StageNumber: n, Channels: ChannelSet{Email: true}}
			}

			got := RenumberStages(stages)

			if len(got) != len(tc.want) {
				t.Fatalf("expected %d stages, got %d", len(tc.want), len(got))
			}
			for i, n := range tc.want {
				if got[i].StageNumber != n {
					t.Fatalf("stage %d: expected number %d, got %d", i, n, got[i].StageNumber)
				}
			}
		})
	}
}

func TestRenumberStages_DoesNotMutateInput(t *testing.T) {
	stages := []Stage{
		{StageNumber: 3, Channels: ChannelSet{Email: true}},
		{StageNumber: 1, Channels: ChannelSet{SMS: true}},
	}

	RenumberStages(stages)

	if stages[0].StageNumber != 3 || stages[1].StageNumber != 1 {
		t.Fatal("input slice was mutated")
	}
}

func TestValidateProcess(t *testing.T) {
	known := map[uuid.UUID]bool{q1: true, q2: true}

	valid := BookingProcess{
		Name:                     "Outbound default",
		MaxWavesBeforeEscalation: 4,
		Stages: []Stage{
			{StageNumber: 1, Channels: ChannelSet{Email: true}},
			{
				StageNumber:                2,
				Channels:                   ChannelSet{Email: true, SMS: true},
				IncludeBookingLink:         true,
				LinkType:                   LinkTypePlainURL,
				IncludeSuggestedTimes:      true,
				SuggestedTimeCount:         3,
				IncludeQualifyingQuestions: true,
				QuestionIDs:                []uuid.UUID{q1, q2},
			},
		},
	}

	if err := ValidateProcess(valid, known); err != nil {
		t.Fatalf("expected valid process, got %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(p *BookingProcess)
		wantField string
	}{
		{
			"empty name",
			func(p *BookingProcess) { p.Name = "" },
			"name",
		},
		{
			"zero escalation ceiling",
			func(p *BookingProcess) { p.MaxWavesBeforeEscalation = 0 },
			"maxWavesBeforeEscalation",
		},
		{
			"no stages",
			func(p *BookingProcess) { p.Stages = nil },
			"stages",
		},
		{
			"no applicable channel",
			func(p *BookingProcess) { p.Stages[0].Channels = ChannelSet{} },
			"channelApplicability",
		},
		{
			"time count too low",
			func(p *BookingProcess) { p.Stages[1].SuggestedTimeCount = 1 },
			"suggestedTimeCount",
		},
		{
			"time count too high",
			func(p *BookingProcess) { p.Stages[1].SuggestedTimeCount = 5 },
			"suggestedTimeCount",
		},
		{
			"unknown question reference",
			func(p *BookingProcess) { p.Stages[1].QuestionIDs = []uuid.UUID{q3} },
			"questionIds",
		},
		{
			"duplicate question reference",
			func(p *BookingProcess) { p.Stages[1].QuestionIDs = []uuid.UUID{q1, q1} },
			"questionIds",
		},
		{
			"non-contiguous stage numbers",
			func(p *BookingProcess) { p.Stages[1].StageNumber = 5 },
			"stageNumber",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			p.Stages = append([]Stage(nil), valid.Stages...)
			tc.mutate(&p)

			err := ValidateProcess(p, known)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantField) {
				t.Fatalf("error %q does not name field %q", err, tc.wantField)
			}
		})
	}
}
