// Package service implements event-driven lead progression tracking:
// idempotent ingestion of outbound and booking events and tracker reads.
package service

import (
	"context"
	"time"

	appevents "outreach_backend/internal/events"
	"outreach_backend/internal/progression/repository"
	"outreach_backend/internal/progression/transport"
	"outreach_backend/platform/events"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/phone"

	"github.com/google/uuid"
)

// Service applies progression events and serves tracker state.
type Service struct {
	repo   *repository.Repository
	dedupe *repository.DedupeCache
	log    *logger.Logger
	bus    events.Bus
}

// New creates a new progression service. The dedupe cache is optional; when
// nil every delivery goes straight to the database, which is authoritative
// either way.
func New(repo *repository.Repository, dedupe *repository.DedupeCache, log *logger.Logger) *Service {
	return &Service{repo: repo, dedupe: dedupe, log: log}
}

// SetEventBus injects the event bus used for booking notifications.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// IngestOutbound applies one outbound_sent event. Redeliveries are no-ops.
func (s *Service) IngestOutbound(ctx context.Context, workspaceID uuid.UUID, evt transport.OutboundSentEvent) (transport.IngestResponse, error) {
	if evt.Channel == "sms" && evt.ChannelAddress != "" {
		evt.ChannelAddress = phone.NormalizeE164(evt.ChannelAddress)
	}

	if seen := s.checkDedupe(ctx, evt.EventID); seen {
		s.log.ProgressionEvent("outbound_sent", evt.LeadID.String(), false, "duplicate event id")
		return transport.IngestResponse{EventID: evt.EventID, Duplicate: true}, nil
	}

	outcome, err := s.repo.ApplyOutbound(ctx, repository.ApplyOutboundParams{
		EventID:          evt.EventID,
		WorkspaceID:      workspaceID,
		LeadID:           evt.LeadID,
		BookingProcessID: evt.BookingProcessID,
		Wave:             evt.Wave,
		Channel:          evt.Channel,
		ChannelAddress:   evt.ChannelAddress,
		OccurredAt:       evt.OccurredAt,
	})
	if err != nil {
		s.forgetDedupe(ctx, evt.EventID)
		return transport.IngestResponse{}, err
	}

	if !outcome.Applied {
		s.log.ProgressionEvent("outbound_sent", evt.LeadID.String(), false, "duplicate event id")
		return transport.IngestResponse{EventID: evt.EventID, Duplicate: true}, nil
	}
	s.log.ProgressionEvent("outbound_sent", evt.LeadID.String(), true, "")
	return transport.IngestResponse{EventID: evt.EventID, Applied: true}, nil
}

// IngestBooked applies one booked event. The first booking wins; a second
// booking for the same lead is flagged but not applied.
func (s *Service) IngestBooked(ctx context.Context, workspaceID uuid.UUID, evt transport.BookedEvent) (transport.IngestResponse, error) {
	if seen := s.checkDedupe(ctx, evt.EventID); seen {
		s.log.ProgressionEvent("booked", evt.LeadID.String(), false, "duplicate event id")
		return transport.IngestResponse{EventID: evt.EventID, Duplicate: true}, nil
	}

	outcome, err := s.repo.ApplyBooked(ctx, repository.ApplyBookedParams{
		EventID:          evt.EventID,
		WorkspaceID:      workspaceID,
		LeadID:           evt.LeadID,
		BookingProcessID: evt.BookingProcessID,
		BookedAt:         evt.BookedAt,
	})
	if err != nil {
		s.forgetDedupe(ctx, evt.EventID)
		return transport.IngestResponse{}, err
	}

	if outcome.AlreadyBooked {
		s.log.ProgressionEvent("booked", evt.LeadID.String(), false, "lead already booked")
		return transport.IngestResponse{EventID: evt.EventID, AlreadyBooked: true}, nil
	}
	if !outcome.Applied {
		s.log.ProgressionEvent("booked", evt.LeadID.String(), false, "duplicate event id")
		return transport.IngestResponse{EventID: evt.EventID, Duplicate: true}, nil
	}

	s.log.ProgressionEvent("booked", evt.LeadID.String(), true, "")
	if s.bus != nil {
		s.bus.Publish(ctx, appevents.LeadBooked{
			BaseEvent:        events.NewBaseEvent(),
			WorkspaceID:      workspaceID,
			LeadID:           evt.LeadID,
			BookingProcessID: evt.BookingProcessID,
			OutboundCount:    outcome.Progress.OutboundCount,
		})
	}
	return transport.IngestResponse{EventID: evt.EventID, Applied: true}, nil
}

// Reassign moves a lead to a different process. The previous tracker record
// is archived so historical analytics keep counting it.
func (s *Service) Reassign(ctx context.Context, workspaceID, leadID uuid.UUID, req transport.ReassignRequest) (transport.ProgressResponse, error) {
	record, err := s.repo.Reassign(ctx, workspaceID, leadID, req.BookingProcessID)
	if err != nil {
		return transport.ProgressResponse{}, err
	}
	return transport.FromRecord(record), nil
}

// GetProgress returns the lead's active tracker state.
func (s *Service) GetProgress(ctx context.Context, workspaceID, leadID uuid.UUID) (transport.ProgressResponse, error) {
	record, err := s.repo.GetActive(ctx, workspaceID, leadID)
	if err != nil {
		return transport.ProgressResponse{}, err
	}
	return transport.FromRecord(record), nil
}

// ListByProcess returns tracker snapshots for a process, archived included.
func (s *Service) ListByProcess(ctx context.Context, workspaceID, processID uuid.UUID) ([]repository.ProgressRecord, error) {
	return s.repo.ListByProcess(ctx, workspaceID, processID)
}

// PurgeArchived removes archived tracker records older than the retention
// window.
func (s *Service) PurgeArchived(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteArchivedBefore(ctx, time.Now().Add(-retention))
}

// checkDedupe returns true when the cache already holds the event id. Cache
// errors are logged and treated as a miss.
func (s *Service) checkDedupe(ctx context.Context, eventID string) bool {
	if s.dedupe == nil {
		return false
	}
	seen, err := s.dedupe.MarkSeen(ctx, eventID)
	if err != nil {
		s.log.Warn("dedupe cache unavailable", "error", err)
		return false
	}
	return seen
}

// forgetDedupe releases the event id after a failed apply so the sender's
// retry is not swallowed by the cache.
func (s *Service) forgetDedupe(ctx context.Context, eventID string) {
	if s.dedupe == nil {
		return
	}
	if err := s.dedupe.Forget(ctx, eventID); err != nil {
		s.log.Warn("dedupe cache unavailable", "error", err)
	}
}
