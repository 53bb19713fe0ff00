// Package service implements campaign management and the auto-send gate.
package service

import (
	"context"

	"outreach_backend/internal/campaigns/domain"
	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/campaigns/transport"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
)

// Service manages campaigns and answers auto-send eligibility checks.
type Service struct {
	repo *repository.Repository
}

// New creates a new campaigns service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new campaign.
func (s *Service) Create(ctx context.Context, workspaceID uuid.UUID, req transport.CreateCampaignRequest) (transport.CampaignResponse, error) {
	if err := s.validate(ctx, workspaceID, req.ResponseMode, req.AutoSendConfidenceThreshold, req.BookingProcessID); err != nil {
		return transport.CampaignResponse{}, err
	}

	c, err := s.repo.Create(ctx, repository.CreateParams{
		WorkspaceID:                 workspaceID,
		Name:                        req.Name,
		BookingProcessID:            req.BookingProcessID,
		ResponseMode:                req.ResponseMode,
		AutoSendConfidenceThreshold: req.AutoSendConfidenceThreshold,
	})
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return toResponse(c), nil
}

// Update edits a campaign.
func (s *Service) Update(ctx context.Context, workspaceID, campaignID uuid.UUID, req transport.UpdateCampaignRequest) (transport.CampaignResponse, error) {
	if err := s.validate(ctx, workspaceID, req.ResponseMode, req.AutoSendConfidenceThreshold, req.BookingProcessID); err != nil {
		return transport.CampaignResponse{}, err
	}

	c, err := s.repo.Update(ctx, repository.UpdateParams{
		WorkspaceID:                 workspaceID,
		CampaignID:                  campaignID,
		Name:                        req.Name,
		BookingProcessID:            req.BookingProcessID,
		ResponseMode:                req.ResponseMode,
		AutoSendConfidenceThreshold: req.AutoSendConfidenceThreshold,
	})
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return toResponse(c), nil
}

// GetByID returns a single campaign.
func (s *Service) GetByID(ctx context.Context, workspaceID, campaignID uuid.UUID) (transport.CampaignResponse, error) {
	c, err := s.repo.GetByID(ctx, workspaceID, campaignID)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return toResponse(c), nil
}

// List returns all campaigns in the workspace.
func (s *Service) List(ctx context.Context, workspaceID uuid.UUID) ([]transport.CampaignResponse, error) {
	campaigns, err := s.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CampaignResponse, len(campaigns))
	for i, c := range campaigns {
		out[i] = toResponse(c)
	}
	return out, nil
}

// Delete removes a campaign. Lead progress for the campaign's process stays
// archived for historical analytics.
func (s *Service) Delete(ctx context.Context, workspaceID, campaignID uuid.UUID) error {
	return s.repo.Delete(ctx, workspaceID, campaignID)
}

// CheckAutoSend runs the pure eligibility gate for one evaluator verdict.
func (s *Service) CheckAutoSend(ctx context.Context, workspaceID, campaignID uuid.UUID, req transport.AutoSendCheckRequest) (transport.AutoSendCheckResponse, error) {
	c, err := s.repo.GetByID(ctx, workspaceID, campaignID)
	if err != nil {
		return transport.AutoSendCheckResponse{}, err
	}

	eligible := domain.IsAutoSendEligible(c.ToDomain(), domain.EvaluatorResult{
		SafeToSend: req.SafeToSend,
		Confidence: req.Confidence,
	})
	return transport.AutoSendCheckResponse{Eligible: eligible}, nil
}

func (s *Service) validate(ctx context.Context, workspaceID uuid.UUID, mode string, threshold float64, processID *uuid.UUID) error {
	if !domain.IsKnownResponseMode(domain.ResponseMode(mode)) {
		return apperr.Validationf("responseMode: unknown value %q", mode)
	}
	if err := domain.ValidateThreshold(threshold); err != nil {
		return apperr.Validation(err.Error())
	}
	if processID != nil {
		exists, err := s.repo.ProcessExists(ctx, workspaceID, *processID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.Validationf("bookingProcessId: unknown booking process %s", *processID)
		}
	}
	return nil
}

func toResponse(c repository.Campaign) transport.CampaignResponse {
	return transport.CampaignResponse{
		ID:                          c.ID,
		Name:                        c.Name,
		BookingProcessID:            c.BookingProcessID,
		ResponseMode:                c.ResponseMode,
		AutoSendConfidenceThreshold: c.AutoSendConfidenceThreshold,
		CreatedAt:                   c.CreatedAt,
		UpdatedAt:                   c.UpdatedAt,
	}
}
