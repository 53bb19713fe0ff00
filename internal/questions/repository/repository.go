package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const questionNotFoundMsg = "qualification question not found"

// Question is the database model for a registry question.
type Question struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Text        string
	Required    bool
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository provides database operations for the question registry.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new question registry repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create appends a question to the end of the workspace registry.
func (r *Repository) Create(ctx context.Context, workspaceID uuid.UUID, text string, required bool) (Question, error) {
	q := Question{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Text:        text,
		Required:    required,
	}

	query := `
		INSERT INTO qualification_questions (id, workspace_id, text, required, position)
		VALUES ($1, $2, $3, $4,
			(SELECT coalesce(max(position), -1) + 1 FROM qualification_questions WHERE workspace_id = $2))
		RETURNING position, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query, q.ID, q.WorkspaceID, q.Text, q.Required).
		Scan(&q.Position, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return Question{}, fmt.Errorf("failed to insert question: %w", err)
	}
	return q, nil
}

// Update edits a question's text and required flag.
func (r *Repository) Update(ctx context.Context, workspaceID, questionID uuid.UUID, text string, required bool) (Question, error) {
	q := Question{ID: questionID, WorkspaceID: workspaceID, Text: text, Required: required}

	query := `
		UPDATE qualification_questions
		SET text = $1, required = $2, updated_at = now()
		WHERE id = $3 AND workspace_id = $4
		RETURNING position, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query, text, required, questionID, workspaceID).
		Scan(&q.Position, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Question{}, apperr.NotFound(questionNotFoundMsg)
		}
		return Question{}, fmt.Errorf("failed to update question: %w", err)
	}
	return q, nil
}

// List returns the workspace registry in registry order.
func (r *Repository) List(ctx context.Context, workspaceID uuid.UUID) ([]Question, error) {
	query := `
		SELECT id, workspace_id, text, required, position, created_at, updated_at
		FROM qualification_questions
		WHERE workspace_id = $1
		ORDER BY position`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.WorkspaceID, &q.Text, &q.Required, &q.Position, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Delete removes a question from the registry.
func (r *Repository) Delete(ctx context.Context, workspaceID, questionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM qualification_questions WHERE id = $1 AND workspace_id = $2`,
		questionID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(questionNotFoundMsg)
	}
	return nil
}

// Reorder replaces the registry ordering with the supplied id list. Every
// workspace question must appear exactly once.
func (r *Repository) Reorder(ctx context.Context, workspaceID uuid.UUID, questionIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM qualification_questions WHERE workspace_id = $1`, workspaceID,
	).Scan(&total); err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if total != len(questionIDs) {
		return apperr.Validation(fmt.Sprintf("questionIds: reorder must list all %d questions, got %d", total, len(questionIDs)))
	}

	for i, id := range questionIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE qualification_questions SET position = $1, updated_at = now() WHERE id = $2 AND workspace_id = $3`,
			i, id, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to reorder question: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.Validation(fmt.Sprintf("questionIds: unknown question %s", id))
		}
	}

	return tx.Commit(ctx)
}
