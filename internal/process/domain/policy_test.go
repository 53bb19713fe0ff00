package domain

import (
	"testing"

	"github.com/google/uuid"
)

var (
	q1 = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	q2 = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	q3 = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	q4 = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

func testRegistry() []QualificationQuestion {
	return []QualificationQuestion{
		{ID: q1, Text: "What is your budget?", Required: true, Position: 0},
		{ID: q2, Text: "When would you like to start?", Required: false, Position: 1},
		{ID: q3, Text: "How many seats?", Required: true, Position: 2},
		{ID: q4, Text: "Anything else?", Required: false, Position: 3},
	}
}

func allChannels() ChannelSet {
	return ChannelSet{Email: true, SMS: true, LinkedIn: true}
}

// threeStageProcess mirrors the canonical scenario: wave 1 no link, wave 2
// link plus two suggested times, wave 3 link plus questions.
func threeStageProcess() BookingProcess {
	return BookingProcess{
		ID:                       uuid.New(),
		Name:                     "Default outreach",
		MaxWavesBeforeEscalation: 5,
		Stages: []Stage{
			{
				StageNumber: 1,
				Channels:    allChannels(),
			},
			{
				StageNumber:           2,
				Channels:              allChannels(),
				IncludeBookingLink:    true,
				LinkType:              LinkTypeHyperlinkedText,
				IncludeSuggestedTimes: true,
				SuggestedTimeCount:    2,
			},
			{
				StageNumber:                3,
				Channels:                   allChannels(),
				IncludeBookingLink:         true,
				LinkType:                   LinkTypeHyperlinkedText,
				IncludeQualifyingQuestions: true,
				QuestionIDs:                []uuid.UUID{q1, q2},
			},
		},
	}
}

func TestResolvePolicy_SMSForcesPlainURL(t *testing.T) {
	res := ResolvePolicy(threeStageProcess(), 2, ChannelSMS, testRegistry())

	if res.Escalate {
		t.Fatal("expected a policy, got escalation")
	}
	if !res.Policy.IncludeBookingLink {
		t.Fatal("expected booking link at wave 2")
	}
	if res.Policy.LinkType != LinkTypePlainURL {
		t.Fatalf("expected plain_url on SMS, got %q", res.Policy.LinkType)
	}
	if res.Policy.SuggestedTimeCount != 2 {
		t.Fatalf("expected 2 suggested times, got %d", res.Policy.SuggestedTimeCount)
	}
}

func TestResolvePolicy_EmailKeepsHyperlinkedText(t *testing.T) {
	res := ResolvePolicy(threeStageProcess(), 2, ChannelEmail, testRegistry())

	if res.Policy.LinkType != LinkTypeHyperlinkedText {
		t.Fatalf("expected hyperlinked_text on email, got %q", res.Policy.LinkType)
	}
}

func TestResolvePolicy_EscalatesPastCeiling(t *testing.T) {
	res := ResolvePolicy(threeStageProcess(), 6, ChannelSMS, testRegistry())

	if !res.Escalate {
		t.Fatal("expected escalation at wave 6 with ceiling 5")
	}
}

func TestResolvePolicy_ReusesLastStagePastStageCount(t *testing.T) {
	p := threeStageProcess()
	last := ResolvePolicy(p, 3, ChannelEmail, testRegistry())
	past := ResolvePolicy(p, 5, ChannelEmail, testRegistry())

	if past.Escalate {
		t.Fatal("wave 5 is within the escalation ceiling")
	}
	if past.Policy.IncludeBookingLink != last.Policy.IncludeBookingLink ||
		past.Policy.IncludeQualifyingQuestions != last.Policy.IncludeQualifyingQuestions ||
		len(past.Policy.Questions) != len(last.Policy.Questions) {
		t.Fatalf("wave past stage count should reuse last stage: got %+v want %+v", past.Policy, last.Policy)
	}
	if past.Policy.Wave != 5 {
		t.Fatalf("resolved wave should stay 5, got %d", past.Policy.Wave)
	}
}

func TestResolvePolicy_InapplicableChannelIsNoOp(t *testing.T) {
	p := threeStageProcess()
	p.Stages[1].Channels = ChannelSet{Email: true} // wave 2 email-only

	res := ResolvePolicy(p, 2, ChannelSMS, testRegistry())

	if res.Escalate {
		t.Fatal("inapplicable channel must not escalate")
	}
	pol := res.Policy
	if pol.IncludeBookingLink || pol.IncludeSuggestedTimes || pol.IncludeQualifyingQuestions || pol.IncludeTimezoneAsk {
		t.Fatalf("expected all content flags off for inapplicable channel, got %+v", pol)
	}
	if len(pol.Questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(pol.Questions))
	}
}

func TestResolvePolicy_SMSQuestionCapKeepsRequiredFloor(t *testing.T) {
	p := threeStageProcess()
	// Stage 3 references two required and two optional questions.
	p.Stages[2].QuestionIDs = []uuid.UUID{q4, q2, q3, q1}

	res := ResolvePolicy(p, 3, ChannelSMS, testRegistry())

	questions := res.Policy.Questions
	if len(questions) != 2 {
		t.Fatalf("expected SMS cap of 2 questions, got %d", len(questions))
	}
	// Both required questions survive the cap, in registry order.
	if questions[0].ID != q1 || questions[1].ID != q3 {
		t.Fatalf("expected required questions [q1 q3], got [%s %s]", questions[0].ID, questions[1].ID)
	}
}

func TestResolvePolicy_RequiredFloorMayExceedSMSCap(t *testing.T) {
	registry := []QualificationQuestion{
		{ID: q1, Required: true, Position: 0},
		{ID: q2, Required: true, Position: 1},
		{ID: q3, Required: true, Position: 2},
	}
	p := threeStageProcess()
	p.Stages[2].QuestionIDs = []uuid.UUID{q3, q2, q1}

	res := ResolvePolicy(p, 3, ChannelSMS, registry)

	if len(res.Policy.Questions) != 3 {
		t.Fatalf("required questions are a hard floor: expected 3, got %d", len(res.Policy.Questions))
	}
}

func TestResolvePolicy_EmailUsesFullQuestionList(t *testing.T) {
	p := threeStageProcess()
	p.Stages[2].QuestionIDs = []uuid.UUID{q4, q2, q3, q1}

	res := ResolvePolicy(p, 3, ChannelEmail, testRegistry())

	questions := res.Policy.Questions
	if len(questions) != 4 {
		t.Fatalf("expected full question list on email, got %d", len(questions))
	}
	// Required first in registry order, then optional in stage order.
	want := []uuid.UUID{q1, q3, q4, q2}
	for i, q := range questions {
		if q.ID != want[i] {
			t.Fatalf("question order mismatch at %d: got %s want %s", i, q.ID, want[i])
		}
	}
}

func TestResolvePolicy_Deterministic(t *testing.T) {
	p := threeStageProcess()
	registry := testRegistry()

	first := ResolvePolicy(p, 3, ChannelSMS, registry)
	for i := 0; i < 10; i++ {
		again := ResolvePolicy(p, 3, ChannelSMS, registry)
		if again.Escalate != first.Escalate || len(again.Policy.Questions) != len(first.Policy.Questions) {
			t.Fatalf("resolution %d differs: %+v vs %+v", i, again, first)
		}
		for j := range again.Policy.Questions {
			if again.Policy.Questions[j].ID != first.Policy.Questions[j].ID {
				t.Fatalf("question order changed between identical resolutions")
			}
		}
	}
}

func TestResolvePolicy_ClampsWaveBelowOne(t *testing.T) {
	res := ResolvePolicy(threeStageProcess(), 0, ChannelEmail, testRegistry())

	if res.Escalate {
		t.Fatal("wave 0 must clamp to wave 1, not escalate")
	}
	if res.Policy.Wave != 1 {
		t.Fatalf("expected wave clamped to 1, got %d", res.Policy.Wave)
	}
	if res.Policy.IncludeBookingLink {
		t.Fatal("wave 1 has no booking link")
	}
}
