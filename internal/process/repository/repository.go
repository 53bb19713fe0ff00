package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach_backend/internal/process/domain"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const processNotFoundMsg = "booking process not found"

// ── Database models ───────────────────────────────────────────────────────────

// ProcessRecord is the database model for a booking process header.
type ProcessRecord struct {
	ID                       uuid.UUID
	WorkspaceID              uuid.UUID
	Name                     string
	Description              string
	MaxWavesBeforeEscalation int
	CreatedAt                time.Time
	UpdatedAt                time.Time

	Stages        []domain.Stage
	CampaignCount int
}

// ToDomain converts the record into the pure domain model used by the
// policy resolver.
func (r ProcessRecord) ToDomain() domain.BookingProcess {
	return domain.BookingProcess{
		ID:                       r.ID,
		WorkspaceID:              r.WorkspaceID,
		Name:                     r.Name,
		Description:              r.Description,
		MaxWavesBeforeEscalation: r.MaxWavesBeforeEscalation,
		Stages:                   r.Stages,
	}
}

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides database operations for booking processes and stages.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new booking process repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateParams holds the inputs for creating a process.
type CreateParams struct {
	WorkspaceID              uuid.UUID
	Name                     string
	Description              string
	MaxWavesBeforeEscalation int
	Stages                   []domain.Stage
}

// Create inserts a process with its stages in a single transaction.
func (r *Repository) Create(ctx context.Context, params CreateParams) (ProcessRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ProcessRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	record := ProcessRecord{
		ID:                       uuid.New(),
		WorkspaceID:              params.WorkspaceID,
		Name:                     params.Name,
		Description:              params.Description,
		MaxWavesBeforeEscalation: params.MaxWavesBeforeEscalation,
		Stages:                   params.Stages,
	}

	query := `
		INSERT INTO booking_processes (id, workspace_id, name, description, max_waves_before_escalation)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		record.ID, record.WorkspaceID, record.Name, record.Description, record.MaxWavesBeforeEscalation,
	).Scan(&record.CreatedAt, &record.UpdatedAt); err != nil {
		return ProcessRecord{}, fmt.Errorf("failed to insert booking process: %w", err)
	}

	if err := insertStages(ctx, tx, record.ID, params.Stages); err != nil {
		return ProcessRecord{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ProcessRecord{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return record, nil
}

// UpdateParams holds the inputs for replacing a process definition.
type UpdateParams struct {
	WorkspaceID              uuid.UUID
	ProcessID                uuid.UUID
	Name                     string
	Description              string
	MaxWavesBeforeEscalation int
	Stages                   []domain.Stage
}

// Update replaces the process header and its full stage list transactionally.
func (r *Repository) Update(ctx context.Context, params UpdateParams) (ProcessRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ProcessRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	record := ProcessRecord{
		ID:                       params.ProcessID,
		WorkspaceID:              params.WorkspaceID,
		Name:                     params.Name,
		Description:              params.Description,
		MaxWavesBeforeEscalation: params.MaxWavesBeforeEscalation,
		Stages:                   params.Stages,
	}

	query := `
		UPDATE booking_processes
		SET name = $1, description = $2, max_waves_before_escalation = $3, updated_at = now()
		WHERE id = $4 AND workspace_id = $5
		RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		params.Name, params.Description, params.MaxWavesBeforeEscalation, params.ProcessID, params.WorkspaceID,
	).Scan(&record.CreatedAt, &record.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProcessRecord{}, apperr.NotFound(processNotFoundMsg)
		}
		return ProcessRecord{}, fmt.Errorf("failed to update booking process: %w", err)
	}

	// Stage lists are rebuilt on every edit: delete and reinsert.
	if _, err := tx.Exec(ctx, `DELETE FROM booking_process_stages WHERE process_id = $1`, params.ProcessID); err != nil {
		return ProcessRecord{}, fmt.Errorf("failed to clear stages: %w", err)
	}
	if err := insertStages(ctx, tx, params.ProcessID, params.Stages); err != nil {
		return ProcessRecord{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ProcessRecord{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return record, nil
}

func insertStages(ctx context.Context, tx pgx.Tx, processID uuid.UUID, stages []domain.Stage) error {
	stageQuery := `
		INSERT INTO booking_process_stages (
			id, process_id, stage_number,
			channel_email, channel_sms, channel_linkedin,
			include_booking_link, link_type,
			include_suggested_times, suggested_time_count,
			include_qualifying_questions, include_timezone_ask
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	questionQuery := `
		INSERT INTO booking_process_stage_questions (stage_id, question_id, sort_order)
		VALUES ($1, $2, $3)`

	for _, stage := range stages {
		stageID := uuid.New()
		var linkType *string
		if stage.IncludeBookingLink {
			lt := string(stage.LinkType)
			linkType = &lt
		}

		if _, err := tx.Exec(ctx, stageQuery,
			stageID, processID, stage.StageNumber,
			stage.Channels.Email, stage.Channels.SMS, stage.Channels.LinkedIn,
			stage.IncludeBookingLink, linkType,
			stage.IncludeSuggestedTimes, stage.SuggestedTimeCount,
			stage.IncludeQualifyingQuestions, stage.IncludeTimezoneAsk,
		); err != nil {
			return fmt.Errorf("failed to insert stage %d: %w", stage.StageNumber, err)
		}

		for i, questionID := range stage.QuestionIDs {
			if _, err := tx.Exec(ctx, questionQuery, stageID, questionID, i); err != nil {
				return fmt.Errorf("failed to insert stage question: %w", err)
			}
		}
	}
	return nil
}

// GetByID loads a process with its ordered stage list.
func (r *Repository) GetByID(ctx context.Context, workspaceID, processID uuid.UUID) (ProcessRecord, error) {
	var record ProcessRecord
	query := `
		SELECT p.id, p.workspace_id, p.name, p.description, p.max_waves_before_escalation,
		       p.created_at, p.updated_at,
		       (SELECT count(*) FROM campaigns c WHERE c.booking_process_id = p.id) AS campaign_count
		FROM booking_processes p
		WHERE p.id = $1 AND p.workspace_id = $2`
	if err := r.pool.QueryRow(ctx, query, processID, workspaceID).Scan(
		&record.ID, &record.WorkspaceID, &record.Name, &record.Description,
		&record.MaxWavesBeforeEscalation, &record.CreatedAt, &record.UpdatedAt,
		&record.CampaignCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProcessRecord{}, apperr.NotFound(processNotFoundMsg)
		}
		return ProcessRecord{}, fmt.Errorf("failed to load booking process: %w", err)
	}

	stages, err := r.loadStages(ctx, processID)
	if err != nil {
		return ProcessRecord{}, err
	}
	record.Stages = stages
	return record, nil
}

// List returns all processes in a workspace, with stages and campaign counts.
func (r *Repository) List(ctx context.Context, workspaceID uuid.UUID) ([]ProcessRecord, error) {
	query := `
		SELECT p.id, p.workspace_id, p.name, p.description, p.max_waves_before_escalation,
		       p.created_at, p.updated_at,
		       (SELECT count(*) FROM campaigns c WHERE c.booking_process_id = p.id) AS campaign_count
		FROM booking_processes p
		WHERE p.workspace_id = $1
		ORDER BY p.created_at`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking processes: %w", err)
	}
	defer rows.Close()

	var records []ProcessRecord
	for rows.Next() {
		var record ProcessRecord
		if err := rows.Scan(
			&record.ID, &record.WorkspaceID, &record.Name, &record.Description,
			&record.MaxWavesBeforeEscalation, &record.CreatedAt, &record.UpdatedAt,
			&record.CampaignCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking process: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		stages, err := r.loadStages(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Stages = stages
	}
	return records, nil
}

// Delete removes a process. It is rejected while any campaign references it.
func (r *Repository) Delete(ctx context.Context, workspaceID, processID uuid.UUID) error {
	var refs int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM campaigns WHERE booking_process_id = $1`, processID,
	).Scan(&refs); err != nil {
		return fmt.Errorf("failed to count campaign references: %w", err)
	}
	if refs > 0 {
		return apperr.Conflict(fmt.Sprintf("booking process is referenced by %d campaign(s)", refs))
	}

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM booking_processes WHERE id = $1 AND workspace_id = $2`, processID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete booking process: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(processNotFoundMsg)
	}
	return nil
}

// IsReferencedQuestion reports whether any stage in the workspace references
// the given question. The question registry consults this before deletion.
func (r *Repository) IsReferencedQuestion(ctx context.Context, workspaceID, questionID uuid.UUID) (bool, error) {
	var count int
	query := `
		SELECT count(*)
		FROM booking_process_stage_questions sq
		JOIN booking_process_stages s ON s.id = sq.stage_id
		JOIN booking_processes p ON p.id = s.process_id
		WHERE sq.question_id = $1 AND p.workspace_id = $2`
	if err := r.pool.QueryRow(ctx, query, questionID, workspaceID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count question references: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) loadStages(ctx context.Context, processID uuid.UUID) ([]domain.Stage, error) {
	query := `
		SELECT id, stage_number,
		       channel_email, channel_sms, channel_linkedin,
		       include_booking_link, link_type,
		       include_suggested_times, suggested_time_count,
		       include_qualifying_questions, include_timezone_ask
		FROM booking_process_stages
		WHERE process_id = $1
		ORDER BY stage_number`
	rows, err := r.pool.Query(ctx, query, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stages: %w", err)
	}
	defer rows.Close()

	var stages []domain.Stage
	var stageIDs []uuid.UUID
	for rows.Next() {
		var stage domain.Stage
		var stageID uuid.UUID
		var linkType *string
		if err := rows.Scan(
			&stageID, &stage.StageNumber,
			&stage.Channels.Email, &stage.Channels.SMS, &stage.Channels.LinkedIn,
			&stage.IncludeBookingLink, &linkType,
			&stage.IncludeSuggestedTimes, &stage.SuggestedTimeCount,
			&stage.IncludeQualifyingQuestions, &stage.IncludeTimezoneAsk,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		if linkType != nil {
			stage.LinkType = domain.LinkType(*linkType)
		}
		stages = append(stages, stage)
		stageIDs = append(stageIDs, stageID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, stageID := range stageIDs {
		questionIDs, err := r.loadStageQuestionIDs(ctx, stageID)
		if err != nil {
			return nil, err
		}
		stages[i].QuestionIDs = questionIDs
	}
	return stages, nil
}

func (r *Repository) loadStageQuestionIDs(ctx context.Context, stageID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id FROM booking_process_stage_questions WHERE stage_id = $1 ORDER BY sort_order`,
		stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage questions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan stage question: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
