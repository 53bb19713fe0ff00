// Package service implements booking process management and live policy
// resolution on top of the process repository.
package service

import (
	"context"

	appevents "outreach_backend/internal/events"
	"outreach_backend/internal/process/domain"
	"outreach_backend/internal/process/repository"
	"outreach_backend/internal/process/transport"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/events"
	"outreach_backend/platform/logger"

	"github.com/google/uuid"
)

// QuestionDirectory exposes the workspace question registry to the resolver
// without coupling this module to the questions module's internals.
type QuestionDirectory interface {
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.QualificationQuestion, error)
}

// Service manages booking processes and resolves wave policies.
type Service struct {
	repo      *repository.Repository
	questions QuestionDirectory
	log       *logger.Logger
	bus       events.Bus
}

// New creates a new booking process service.
func New(repo *repository.Repository, questions QuestionDirectory, log *logger.Logger) *Service {
	return &Service{repo: repo, questions: questions, log: log}
}

// SetEventBus injects the event bus used for escalation hand-off events.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// Create validates and stores a new booking process. Stage numbers are
// renumbered contiguously before validation.
func (s *Service) Create(ctx context.Context, workspaceID uuid.UUID, req transport.CreateProcessRequest) (transport.ProcessResponse, error) {
	stages := domain.RenumberStages(transport.ToDomainStages(req.Stages))

	proc := domain.BookingProcess{
		WorkspaceID:              workspaceID,
		Name:                     req.Name,
		Description:              req.Description,
		MaxWavesBeforeEscalation: req.MaxWavesBeforeEscalation,
		Stages:                   stages,
	}
	if err := s.validate(ctx, proc); err != nil {
		return transport.ProcessResponse{}, err
	}

	record, err := s.repo.Create(ctx, repository.CreateParams{
		WorkspaceID:              workspaceID,
		Name:                     req.Name,
		Description:              req.Description,
		MaxWavesBeforeEscalation: req.MaxWavesBeforeEscalation,
		Stages:                   stages,
	})
	if err != nil {
		return transport.ProcessResponse{}, err
	}
	return toResponse(record), nil
}

// Update replaces a process definition, renumbering and revalidating.
func (s *Service) Update(ctx context.Context, workspaceID, processID uuid.UUID, req transport.UpdateProcessRequest) (transport.ProcessResponse, error) {
	stages := domain.RenumberStages(transport.ToDomainStages(req.Stages))

	proc := domain.BookingProcess{
		ID:                       processID,
		WorkspaceID:              workspaceID,
		Name:                     req.Name,
		Description:              req.Description,
		MaxWavesBeforeEscalation: req.MaxWavesBeforeEscalation,
		Stages:                   stages,
	}
	if err := s.validate(ctx, proc); err != nil {
		return transport.ProcessResponse{}, err
	}

	record, err := s.repo.Update(ctx, repository.UpdateParams{
		WorkspaceID:              workspaceID,
		ProcessID:                processID,
		Name:                     req.Name,
		Description:              req.Description,
		MaxWavesBeforeEscalation: req.MaxWavesBeforeEscalation,
		Stages:                   stages,
	})
	if err != nil {
		return transport.ProcessResponse{}, err
	}
	return toResponse(record), nil
}

// GetByID returns a single process.
func (s *Service) GetByID(ctx context.Context, workspaceID, processID uuid.UUID) (transport.ProcessResponse, error) {
	record, err := s.repo.GetByID(ctx, workspaceID, processID)
	if err != nil {
		return transport.ProcessResponse{}, err
	}
	return toResponse(record), nil
}

// List returns all processes in the workspace.
func (s *Service) List(ctx context.Context, workspaceID uuid.UUID) ([]transport.ProcessResponse, error) {
	records, err := s.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ProcessResponse, len(records))
	for i, record := range records {
		out[i] = toResponse(record)
	}
	return out, nil
}

// Delete removes a process. The repository rejects the delete while any
// campaign still references the process.
func (s *Service) Delete(ctx context.Context, workspaceID, processID uuid.UUID) error {
	return s.repo.Delete(ctx, workspaceID, processID)
}

// Resolve computes the effective policy for one wave/channel pair. When the
// resolution escalates and a lead id was supplied, a hand-off event is
// published for the notification subscribers.
func (s *Service) Resolve(ctx context.Context, workspaceID, processID uuid.UUID, req transport.ResolvePolicyRequest) (transport.PolicyResponse, error) {
	record, err := s.repo.GetByID(ctx, workspaceID, processID)
	if err != nil {
		return transport.PolicyResponse{}, err
	}

	registry, err := s.questions.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return transport.PolicyResponse{}, err
	}

	res := domain.ResolvePolicy(record.ToDomain(), req.Wave, domain.Channel(req.Channel), registry)

	if res.Escalate && req.LeadID != nil {
		s.log.Escalation(req.LeadID.String(), processID.String(), req.Wave)
		if s.bus != nil {
			s.bus.Publish(ctx, appevents.LeadEscalated{
				BaseEvent:        events.NewBaseEvent(),
				WorkspaceID:      workspaceID,
				LeadID:           *req.LeadID,
				BookingProcessID: processID,
				Wave:             req.Wave,
			})
		}
	}

	return transport.FromResolution(res), nil
}

// ProcessName returns the display name of a process. Used by notification
// subscribers for email copy.
func (s *Service) ProcessName(ctx context.Context, workspaceID, processID uuid.UUID) (string, error) {
	record, err := s.repo.GetByID(ctx, workspaceID, processID)
	if err != nil {
		return "", err
	}
	return record.Name, nil
}

// IsReferencedQuestion reports whether any stage in the workspace still
// references the question. Used by the question registry to guard deletes.
func (s *Service) IsReferencedQuestion(ctx context.Context, workspaceID, questionID uuid.UUID) (bool, error) {
	return s.repo.IsReferencedQuestion(ctx, workspaceID, questionID)
}

func (s *Service) validate(ctx context.Context, proc domain.BookingProcess) error {
	registry, err := s.questions.ListByWorkspace(ctx, proc.WorkspaceID)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(registry))
	for _, q := range registry {
		known[q.ID] = true
	}

	if err := domain.ValidateProcess(proc, known); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}

func toResponse(record repository.ProcessRecord) transport.ProcessResponse {
	return transport.ProcessResponse{
		ID:                       record.ID,
		Name:                     record.Name,
		Description:              record.Description,
		MaxWavesBeforeEscalation: record.MaxWavesBeforeEscalation,
		Stages:                   transport.FromDomainStages(record.Stages),
		CampaignCount:            record.CampaignCount,
		CreatedAt:                record.CreatedAt,
		UpdatedAt:                record.UpdatedAt,
	}
}
