package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestApplyOutbound_Monotonic(t *testing.T) {
	p := NewLeadProgress(uuid.New(), uuid.New())

	p = ApplyOutbound(p, OutboundSent{Wave: 1, Channel: "email"})
	p = ApplyOutbound(p, OutboundSent{Wave: 2, Channel: "sms"})

	if p.CurrentWave != 2 || p.LastActivityWave != 2 || p.OutboundCount != 2 {
		t.Fatalf("after waves 1,2: got wave=%d last=%d count=%d", p.CurrentWave, p.LastActivityWave, p.OutboundCount)
	}

	// A late event for an earlier wave still counts the outbound but never
	// moves the tracker backwards.
	p = ApplyOutbound(p, OutboundSent{Wave: 1, Channel: "email"})

	if p.CurrentWave != 2 {
		t.Fatalf("current wave regressed to %d", p.CurrentWave)
	}
	if p.LastActivityWave != 2 {
		t.Fatalf("last activity wave regressed to %d", p.LastActivityWave)
	}
	if p.OutboundCount != 3 {
		t.Fatalf("expected outbound count 3, got %d", p.OutboundCount)
	}
}

func TestApplyBooked_FirstBookingWins(t *testing.T) {
	p := NewLeadProgress(uuid.New(), uuid.New())
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	p, applied := ApplyBooked(p, Booked{At: first})
	if !applied {
		t.Fatal("first booking must apply")
	}
	if p.BookedAt == nil || !p.BookedAt.Equal(first) {
		t.Fatalf("expected bookedAt %v, got %v", first, p.BookedAt)
	}

	p, applied = ApplyBooked(p, Booked{At: second})
	if applied {
		t.Fatal("second booking must be reported as a duplicate")
	}
	if !p.BookedAt.Equal(first) {
		t.Fatalf("bookedAt changed to %v after duplicate", p.BookedAt)
	}
}

func TestNewLeadProgress_StartsAtWaveOne(t *testing.T) {
	p := NewLeadProgress(uuid.New(), uuid.New())

	if p.CurrentWave != 1 {
		t.Fatalf("expected current wave 1, got %d", p.CurrentWave)
	}
	if p.OutboundCount != 0 || p.LastActivityWave != 0 || p.BookedAt != nil {
		t.Fatalf("fresh progress not zeroed: %+v", p)
	}
}
