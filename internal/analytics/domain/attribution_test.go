package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	seqA = uuid.MustParse("7b1d2f30-0000-4000-8000-000000000001")
	seqB = uuid.MustParse("7b1d2f30-0000-4000-8000-000000000002")
)

func stepAt(seq uuid.UUID, index int, sentAt time.Time, engaged bool) SequenceStep {
	return SequenceStep{SequenceID: seq, StepIndex: index, SentAt: sentAt, Engaged: engaged}
}

func TestAttribute_FirstEngagedStepWins(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booked := base.Add(72 * time.Hour)

	history := []SequenceStep{
		stepAt(seqA, 0, base, false),
		stepAt(seqA, 1, base.Add(24*time.Hour), true),
		stepAt(seqA, 2, base.Add(48*time.Hour), true),
	}

	got := Attribute(booked, history, true)
	if !got.Attributed {
		t.Fatal("expected attribution")
	}
	if got.StepIndex != 1 {
		t.Fatalf("StepIndex = %d, want 1 (earliest engaged, not earliest sent)", got.StepIndex)
	}
	if got.Provisional {
		t.Fatal("complete history marked provisional")
	}
}

func TestAttribute_NeverAttributesStepsAfterBooking(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booked := base.Add(12 * time.Hour)

	history := []SequenceStep{
		stepAt(seqA, 0, base, false),
		stepAt(seqA, 1, booked, true),
		stepAt(seqA, 2, booked.Add(time.Hour), true),
	}

	got := Attribute(booked, history, true)
	if !got.Attributed {
		t.Fatal("expected fallback attribution to the pre-booking step")
	}
	if got.StepIndex != 0 {
		t.Fatalf("StepIndex = %d, want 0; steps at or after bookedAt are not candidates", got.StepIndex)
	}
}

func TestAttribute_FallsBackToEarliestWhenNoneEngaged(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booked := base.Add(72 * time.Hour)

	history := []SequenceStep{
		stepAt(seqB, 2, base.Add(48*time.Hour), false),
		stepAt(seqB, 0, base, false),
		stepAt(seqB, 1, base.Add(24*time.Hour), false),
	}

	got := Attribute(booked, history, true)
	if !got.Attributed || got.StepIndex != 0 || got.SequenceID != seqB {
		t.Fatalf("got %+v, want earliest step of seqB", got)
	}
}

func TestAttribute_OrderInsensitive(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booked := base.Add(72 * time.Hour)

	ordered := []SequenceStep{
		stepAt(seqA, 0, base, false),
		stepAt(seqA, 1, base.Add(24*time.Hour), true),
		stepAt(seqB, 2, base.Add(48*time.Hour), true),
	}
	shuffled := []SequenceStep{ordered[2], ordered[0], ordered[1]}

	a := Attribute(booked, ordered, true)
	b := Attribute(booked, shuffled, true)
	if a != b {
		t.Fatalf("attribution depends on history order: %+v vs %+v", a, b)
	}
}

func TestAttribute_TieBrokenByEarliestSend(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booked := base.Add(72 * time.Hour)

	// Same step index across two sequences; earliest send wins.
	history := []SequenceStep{
		stepAt(seqB, 0, base.Add(time.Hour), true),
		stepAt(seqA, 0, base, true),
	}

	got := Attribute(booked, history, true)
	if got.SequenceID != seqA {
		t.Fatalf("SequenceID = %s, want seqA (earlier send)", got.SequenceID)
	}
}

func TestAttribute_EmptyHistoryUnattributed(t *testing.T) {
	booked := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	got := Attribute(booked, nil, true)
	if got.Attributed {
		t.Fatal("booking with no pre-booking steps must be unattributed")
	}
	if got.Provisional {
		t.Fatal("complete empty history marked provisional")
	}
}

func TestAttribute_IncompleteHistoryProvisional(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booked := base.Add(24 * time.Hour)

	got := Attribute(booked, []SequenceStep{stepAt(seqA, 0, base, true)}, false)
	if !got.Provisional {
		t.Fatal("incomplete history must yield a provisional result")
	}
}
