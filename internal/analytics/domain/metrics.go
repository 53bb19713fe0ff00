package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// MinSampleSize is the minimum leadsProcessed before a process may be
// flagged best performer. Smaller samples are reported but never ranked.
const MinSampleSize = 5

// LeadSnapshot is one lead's tracker state at aggregation time.
type LeadSnapshot struct {
	LeadID           uuid.UUID
	OutboundCount    int
	BookedAt         *time.Time
	LastActivityWave int
}

// ProcessMetrics is the recomputed aggregate for one booking process.
type ProcessMetrics struct {
	BookingProcessID   uuid.UUID
	LeadsProcessed     int
	LeadsBooked        int
	BookingRate        float64
	AvgOutboundsToBook float64
	DropoffByWave      map[int]int
}

// BookingRecord is one attributed (or unattributed) booking.
type BookingRecord struct {
	LeadID               uuid.UUID
	BookedAt             time.Time
	AttributedSequenceID *uuid.UUID
	AttributedStepIndex  *int
}

// SequenceAttribution is the booking credit rolled up for one sequence.
type SequenceAttribution struct {
	SequenceID  uuid.UUID
	BookedCount int
	Percentage  float64
}

// AttributionSummary is the attribution rollup over a booking window.
type AttributionSummary struct {
	BySequence        []SequenceAttribution
	UnattributedCount int
	TotalBookings     int
}

// ComputeMetrics recomputes the process aggregate over a snapshot window.
// Empty windows yield zeroes, never NaN. Drop-off counts cover non-booked
// leads only, so they sum to leadsProcessed minus leadsBooked; leads that
// never received an outbound are reported under wave 0.
func ComputeMetrics(processID uuid.UUID, snapshots []LeadSnapshot) ProcessMetrics {
	m := ProcessMetrics{
		BookingProcessID: processID,
		LeadsProcessed:   len(snapshots),
		DropoffByWave:    make(map[int]int),
	}

	var outboundsAtBooking int
	for _, s := range snapshots {
		if s.BookedAt != nil {
			m.LeadsBooked++
			outboundsAtBooking += s.OutboundCount
			continue
		}
		// Leads with no outbound yet land in bucket 0 so the counts
		// still sum to leadsProcessed minus leadsBooked.
		m.DropoffByWave[s.LastActivityWave]++
	}

	if m.LeadsProcessed > 0 {
		m.BookingRate = float64(m.LeadsBooked) / float64(m.LeadsProcessed)
	}
	if m.LeadsBooked > 0 {
		m.AvgOutboundsToBook = float64(outboundsAtBooking) / float64(m.LeadsBooked)
	}
	return m
}

// BestPerformer returns the process with the highest booking rate among
// those with enough sample size. ok=false when no process qualifies.
func BestPerformer(metrics []ProcessMetrics) (uuid.UUID, bool) {
	var best *ProcessMetrics
	for i := range metrics {
		m := &metrics[i]
		if m.LeadsProcessed < MinSampleSize {
			continue
		}
		if best == nil || m.BookingRate > best.BookingRate {
			best = m
		}
	}
	if best == nil {
		return uuid.Nil, false
	}
	return best.BookingProcessID, true
}

// AggregateAttribution groups bookings by attributed sequence. Percentages
// are taken over all bookings in the window, unattributed included, and
// groups are sorted by booked count descending.
func AggregateAttribution(records []BookingRecord) AttributionSummary {
	summary := AttributionSummary{TotalBookings: len(records)}

	counts := make(map[uuid.UUID]int)
	for _, r := range records {
		if r.AttributedSequenceID == nil {
			summary.UnattributedCount++
			continue
		}
		counts[*r.AttributedSequenceID]++
	}

	for sequenceID, count := range counts {
		group := SequenceAttribution{SequenceID: sequenceID, BookedCount: count}
		if summary.TotalBookings > 0 {
			group.Percentage = float64(count) / float64(summary.TotalBookings)
		}
		summary.BySequence = append(summary.BySequence, group)
	}
	sort.Slice(summary.BySequence, func(i, j int) bool {
		a, b := summary.BySequence[i], summary.BySequence[j]
		if a.BookedCount != b.BookedCount {
			return a.BookedCount > b.BookedCount
		}
		return a.SequenceID.String() < b.SequenceID.String()
	})
	return summary
}
