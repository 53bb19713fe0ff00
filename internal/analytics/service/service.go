// Package service recomputes booking analytics on demand and resolves
// booking attribution from delivered sequence histories.
package service

import (
	"context"
	"sync"

	"outreach_backend/internal/analytics/domain"
	"outreach_backend/internal/analytics/repository"
	"outreach_backend/internal/analytics/transport"
	"outreach_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// aggregationConcurrency bounds parallel per-process recomputation so a
// workspace with many processes cannot exhaust the pool.
const aggregationConcurrency = 4

// Service serves analytics reads and applies attribution.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new analytics service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ProcessMetrics recomputes the aggregate for one process over the window.
func (s *Service) ProcessMetrics(ctx context.Context, workspaceID, processID uuid.UUID, w repository.Window) (transport.MetricsResponse, error) {
	snapshots, err := s.repo.ListSnapshots(ctx, workspaceID, processID, w)
	if err != nil {
		return transport.MetricsResponse{}, err
	}
	return transport.FromMetrics(domain.ComputeMetrics(processID, snapshots)), nil
}

// CompareProcesses recomputes aggregates for every process in the
// workspace and flags the best performer among those with enough sample.
func (s *Service) CompareProcesses(ctx context.Context, workspaceID uuid.UUID, w repository.Window) (transport.ComparisonResponse, error) {
	processIDs, err := s.repo.ListProcessIDs(ctx, workspaceID)
	if err != nil {
		return transport.ComparisonResponse{}, err
	}

	metrics := make([]domain.ProcessMetrics, len(processIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregationConcurrency)
	for i, processID := range processIDs {
		g.Go(func() error {
			snapshots, err := s.repo.ListSnapshots(gctx, workspaceID, processID, w)
			if err != nil {
				return err
			}
			m := domain.ComputeMetrics(processID, snapshots)
			mu.Lock()
			metrics[i] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return transport.ComparisonResponse{}, err
	}

	resp := transport.ComparisonResponse{
		Processes: make([]transport.MetricsResponse, len(metrics)),
	}
	for i, m := range metrics {
		resp.Processes[i] = transport.FromMetrics(m)
	}
	if best, ok := domain.BestPerformer(metrics); ok {
		resp.BestPerformer = &best
	}
	return resp, nil
}

// AttributionSummary rolls up booking attribution over the window.
func (s *Service) AttributionSummary(ctx context.Context, workspaceID uuid.UUID, w repository.Window) (transport.AttributionSummaryResponse, error) {
	records, err := s.repo.ListBookings(ctx, workspaceID, w)
	if err != nil {
		return transport.AttributionSummaryResponse{}, err
	}
	return transport.FromAttributionSummary(domain.AggregateAttribution(records)), nil
}

// ApplySequenceHistory attributes a lead's booking from the delivered
// follow-up history and stores the result.
func (s *Service) ApplySequenceHistory(ctx context.Context, evt transport.SequenceHistoryEvent) (transport.AttributionResponse, error) {
	booking, err := s.repo.GetBooking(ctx, evt.WorkspaceID, evt.LeadID)
	if err != nil {
		return transport.AttributionResponse{}, err
	}

	att := domain.Attribute(booking.BookedAt, transport.ToDomainSteps(evt.Steps), evt.Complete)
	if err := s.repo.SaveAttribution(ctx, evt.WorkspaceID, evt.LeadID, att); err != nil {
		return transport.AttributionResponse{}, err
	}

	s.log.Info("booking attributed",
		"lead_id", evt.LeadID.String(),
		"attributed", att.Attributed,
		"provisional", att.Provisional,
	)

	resp := transport.AttributionResponse{
		LeadID:      evt.LeadID,
		Attributed:  att.Attributed,
		Provisional: att.Provisional,
	}
	if att.Attributed {
		sequenceID := att.SequenceID
		stepIndex := att.StepIndex
		resp.SequenceID = &sequenceID
		resp.StepIndex = &stepIndex
	}
	return resp, nil
}
