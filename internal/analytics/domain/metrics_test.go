package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var testProcessID = uuid.MustParse("9f8e7d60-0000-4000-8000-0000000000aa")

func bookedSnapshot(outbounds int) LeadSnapshot {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return LeadSnapshot{LeadID: uuid.New(), OutboundCount: outbounds, BookedAt: &at}
}

func droppedSnapshot(lastWave int) LeadSnapshot {
	return LeadSnapshot{LeadID: uuid.New(), OutboundCount: lastWave, LastActivityWave: lastWave}
}

func TestComputeMetrics_TenLeadsFourBooked(t *testing.T) {
	snapshots := []LeadSnapshot{
		bookedSnapshot(2), bookedSnapshot(3), bookedSnapshot(1), bookedSnapshot(4),
		droppedSnapshot(1), droppedSnapshot(1),
		droppedSnapshot(2), droppedSnapshot(2),
		droppedSnapshot(3), droppedSnapshot(3),
	}

	m := ComputeMetrics(testProcessID, snapshots)

	if m.LeadsProcessed != 10 || m.LeadsBooked != 4 {
		t.Fatalf("processed/booked = %d/%d, want 10/4", m.LeadsProcessed, m.LeadsBooked)
	}
	if m.BookingRate != 0.4 {
		t.Fatalf("BookingRate = %v, want 0.4", m.BookingRate)
	}
	if m.AvgOutboundsToBook != 2.5 {
		t.Fatalf("AvgOutboundsToBook = %v, want 2.5", m.AvgOutboundsToBook)
	}
	want := map[int]int{1: 2, 2: 2, 3: 2}
	if len(m.DropoffByWave) != len(want) {
		t.Fatalf("DropoffByWave = %v, want %v", m.DropoffByWave, want)
	}
	for wave, count := range want {
		if m.DropoffByWave[wave] != count {
			t.Fatalf("DropoffByWave[%d] = %d, want %d", wave, m.DropoffByWave[wave], count)
		}
	}
}

func TestComputeMetrics_DropoffSumsToNonBooked(t *testing.T) {
	snapshots := []LeadSnapshot{
		bookedSnapshot(1),
		droppedSnapshot(1), droppedSnapshot(2), droppedSnapshot(2), droppedSnapshot(5),
	}

	m := ComputeMetrics(testProcessID, snapshots)

	sum := 0
	for _, count := range m.DropoffByWave {
		sum += count
	}
	if sum != m.LeadsProcessed-m.LeadsBooked {
		t.Fatalf("drop-off sum = %d, want %d", sum, m.LeadsProcessed-m.LeadsBooked)
	}
}

func TestComputeMetrics_LeadWithoutOutboundCountsAsDropoff(t *testing.T) {
	// A fresh or reassigned lead sits at wave 0 until its first send.
	snapshots := []LeadSnapshot{
		bookedSnapshot(1),
		droppedSnapshot(0),
		droppedSnapshot(2),
	}

	m := ComputeMetrics(testProcessID, snapshots)

	if m.DropoffByWave[0] != 1 {
		t.Fatalf("DropoffByWave[0] = %d, want 1", m.DropoffByWave[0])
	}
	sum := 0
	for _, count := range m.DropoffByWave {
		sum += count
	}
	if sum != m.LeadsProcessed-m.LeadsBooked {
		t.Fatalf("drop-off sum = %d, want %d", sum, m.LeadsProcessed-m.LeadsBooked)
	}
}

func TestComputeMetrics_EmptyWindowYieldsZeroes(t *testing.T) {
	m := ComputeMetrics(testProcessID, nil)

	if m.BookingRate != 0 {
		t.Fatalf("BookingRate = %v, want 0 for empty window", m.BookingRate)
	}
	if m.AvgOutboundsToBook != 0 {
		t.Fatalf("AvgOutboundsToBook = %v, want 0 for empty window", m.AvgOutboundsToBook)
	}
	if len(m.DropoffByWave) != 0 {
		t.Fatalf("DropoffByWave = %v, want empty", m.DropoffByWave)
	}
}

func TestBestPerformer_RequiresMinimumSample(t *testing.T) {
	small := uuid.MustParse("9f8e7d60-0000-4000-8000-0000000000b1")
	large := uuid.MustParse("9f8e7d60-0000-4000-8000-0000000000b2")

	metrics := []ProcessMetrics{
		// Perfect rate but below the sample floor; excluded from ranking.
		{BookingProcessID: small, LeadsProcessed: 4, LeadsBooked: 4, BookingRate: 1.0},
		{BookingProcessID: large, LeadsProcessed: 10, LeadsBooked: 3, BookingRate: 0.3},
	}

	best, ok := BestPerformer(metrics)
	if !ok {
		t.Fatal("expected a best performer")
	}
	if best != large {
		t.Fatalf("best = %s, want the process with enough sample", best)
	}
}

func TestBestPerformer_NoEligibleProcess(t *testing.T) {
	metrics := []ProcessMetrics{
		{BookingProcessID: testProcessID, LeadsProcessed: 3, BookingRate: 1.0},
	}
	if _, ok := BestPerformer(metrics); ok {
		t.Fatal("no process meets the sample floor, want ok=false")
	}
}

func TestAggregateAttribution_GroupsAndPercentages(t *testing.T) {
	booked := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	attributed := func(seq uuid.UUID) BookingRecord {
		index := 0
		return BookingRecord{LeadID: uuid.New(), BookedAt: booked, AttributedSequenceID: &seq, AttributedStepIndex: &index}
	}

	records := []BookingRecord{
		attributed(seqA), attributed(seqA), attributed(seqA),
		attributed(seqB),
		{LeadID: uuid.New(), BookedAt: booked},
	}

	summary := AggregateAttribution(records)

	if summary.TotalBookings != 5 || summary.UnattributedCount != 1 {
		t.Fatalf("total/unattributed = %d/%d, want 5/1", summary.TotalBookings, summary.UnattributedCount)
	}
	if len(summary.BySequence) != 2 {
		t.Fatalf("len(BySequence) = %d, want 2", len(summary.BySequence))
	}
	if summary.BySequence[0].SequenceID != seqA || summary.BySequence[0].BookedCount != 3 {
		t.Fatalf("top group = %+v, want seqA with 3", summary.BySequence[0])
	}
	// Denominator includes the unattributed booking.
	if summary.BySequence[0].Percentage != 0.6 {
		t.Fatalf("top percentage = %v, want 0.6", summary.BySequence[0].Percentage)
	}
	if summary.BySequence[1].Percentage != 0.2 {
		t.Fatalf("second percentage = %v, want 0.2", summary.BySequence[1].Percentage)
	}
}

func TestAggregateAttribution_EmptyWindow(t *testing.T) {
	summary := AggregateAttribution(nil)
	if summary.TotalBookings != 0 || summary.UnattributedCount != 0 || len(summary.BySequence) != 0 {
		t.Fatalf("empty window produced %+v", summary)
	}
}
