// Package service implements the workspace question registry. It owns
// referential integrity for stage → question references: a question cannot
// be deleted while a stage still points at it.
package service

import (
	"context"

	processdomain "outreach_backend/internal/process/domain"
	"outreach_backend/internal/questions/repository"
	"outreach_backend/internal/questions/transport"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
)

// ReferenceChecker reports whether any booking process stage in a workspace
// references a question. Implemented by the process module.
type ReferenceChecker interface {
	IsReferencedQuestion(ctx context.Context, workspaceID, questionID uuid.UUID) (bool, error)
}

// Service manages the workspace question registry.
type Service struct {
	repo *repository.Repository
	refs ReferenceChecker
}

// New creates a new question registry service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// SetReferenceChecker injects the stage reference checker. Set after module
// construction to break the questions ↔ process dependency cycle.
func (s *Service) SetReferenceChecker(refs ReferenceChecker) {
	s.refs = refs
}

// Create adds a question to the end of the registry.
func (s *Service) Create(ctx context.Context, workspaceID uuid.UUID, req transport.CreateQuestionRequest) (transport.QuestionResponse, error) {
	q, err := s.repo.Create(ctx, workspaceID, req.Text, req.Required)
	if err != nil {
		return transport.QuestionResponse{}, err
	}
	return toResponse(q), nil
}

// Update edits a question's text or required flag. The id stays stable so
// existing stage references remain valid.
func (s *Service) Update(ctx context.Context, workspaceID, questionID uuid.UUID, req transport.UpdateQuestionRequest) (transport.QuestionResponse, error) {
	q, err := s.repo.Update(ctx, workspaceID, questionID, req.Text, req.Required)
	if err != nil {
		return transport.QuestionResponse{}, err
	}
	return toResponse(q), nil
}

// List returns the registry in registry order.
func (s *Service) List(ctx context.Context, workspaceID uuid.UUID) ([]transport.QuestionResponse, error) {
	questions, err := s.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.QuestionResponse, len(questions))
	for i, q := range questions {
		out[i] = toResponse(q)
	}
	return out, nil
}

// Delete removes a question. Rejected while any stage references it, so
// stages never hold dangling question ids.
func (s *Service) Delete(ctx context.Context, workspaceID, questionID uuid.UUID) error {
	if s.refs != nil {
		referenced, err := s.refs.IsReferencedQuestion(ctx, workspaceID, questionID)
		if err != nil {
			return err
		}
		if referenced {
			return apperr.Conflict("question is referenced by one or more booking process stages")
		}
	}
	return s.repo.Delete(ctx, workspaceID, questionID)
}

// Reorder replaces the registry ordering.
func (s *Service) Reorder(ctx context.Context, workspaceID uuid.UUID, req transport.ReorderRequest) error {
	return s.repo.Reorder(ctx, workspaceID, req.QuestionIDs)
}

// ListByWorkspace implements the process module's QuestionDirectory: the
// registry in registry order, as domain values for the policy resolver.
func (s *Service) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]processdomain.QualificationQuestion, error) {
	questions, err := s.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]processdomain.QualificationQuestion, len(questions))
	for i, q := range questions {
		out[i] = processdomain.QualificationQuestion{
			ID:       q.ID,
			Text:     q.Text,
			Required: q.Required,
			Position: q.Position,
		}
	}
	return out, nil
}

func toResponse(q repository.Question) transport.QuestionResponse {
	return transport.QuestionResponse{
		ID:        q.ID,
		Text:      q.Text,
		Required:  q.Required,
		Position:  q.Position,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
