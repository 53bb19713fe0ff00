package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach_backend/internal/campaigns/domain"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const campaignNotFoundMsg = "campaign not found"

// Campaign is the database model for a campaign.
type Campaign struct {
	ID                          uuid.UUID
	WorkspaceID                 uuid.UUID
	Name                        string
	BookingProcessID            *uuid.UUID
	ResponseMode                string
	AutoSendConfidenceThreshold float64
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// ToDomain converts the record into the pure domain model used by the gate.
func (c Campaign) ToDomain() domain.Campaign {
	return domain.Campaign{
		ID:                          c.ID,
		WorkspaceID:                 c.WorkspaceID,
		Name:                        c.Name,
		BookingProcessID:            c.BookingProcessID,
		ResponseMode:                domain.ResponseMode(c.ResponseMode),
		AutoSendConfidenceThreshold: c.AutoSendConfidenceThreshold,
	}
}

// Repository provides database operations for campaigns.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new campaigns repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateParams holds the inputs for creating a campaign.
type CreateParams struct {
	WorkspaceID                 uuid.UUID
	Name                        string
	BookingProcessID            *uuid.UUID
	ResponseMode                string
	AutoSendConfidenceThreshold float64
}

// Create inserts a campaign.
func (r *Repository) Create(ctx context.Context, params CreateParams) (Campaign, error) {
	c := Campaign{
		ID:                          uuid.New(),
		WorkspaceID:                 params.WorkspaceID,
		Name:                        params.Name,
		BookingProcessID:            params.BookingProcessID,
		ResponseMode:                params.ResponseMode,
		AutoSendConfidenceThreshold: params.AutoSendConfidenceThreshold,
	}

	query := `
		INSERT INTO campaigns (id, workspace_id, name, booking_process_id, response_mode, auto_send_confidence_threshold)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		c.ID, c.WorkspaceID, c.Name, c.BookingProcessID, c.ResponseMode, c.AutoSendConfidenceThreshold,
	).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return Campaign{}, fmt.Errorf("failed to insert campaign: %w", err)
	}
	return c, nil
}

// UpdateParams holds the inputs for editing a campaign.
type UpdateParams struct {
	WorkspaceID                 uuid.UUID
	CampaignID                  uuid.UUID
	Name                        string
	BookingProcessID            *uuid.UUID
	ResponseMode                string
	AutoSendConfidenceThreshold float64
}

// Update edits a campaign.
func (r *Repository) Update(ctx context.Context, params UpdateParams) (Campaign, error) {
	c := Campaign{
		ID:                          params.CampaignID,
		WorkspaceID:                 params.WorkspaceID,
		Name:                        params.Name,
		BookingProcessID:            params.BookingProcessID,
		ResponseMode:                params.ResponseMode,
		AutoSendConfidenceThreshold: params.AutoSendConfidenceThreshold,
	}

	query := `
		UPDATE campaigns
		SET name = $1, booking_process_id = $2, response_mode = $3, auto_send_confidence_threshold = $4, updated_at = now()
		WHERE id = $5 AND workspace_id = $6
		RETURNING created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		params.Name, params.BookingProcessID, params.ResponseMode, params.AutoSendConfidenceThreshold,
		params.CampaignID, params.WorkspaceID,
	).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMsg)
		}
		return Campaign{}, fmt.Errorf("failed to update campaign: %w", err)
	}
	return c, nil
}

// GetByID loads a campaign.
func (r *Repository) GetByID(ctx context.Context, workspaceID, campaignID uuid.UUID) (Campaign, error) {
	var c Campaign
	query := `
		SELECT id, workspace_id, name, booking_process_id, response_mode, auto_send_confidence_threshold, created_at, updated_at
		FROM campaigns
		WHERE id = $1 AND workspace_id = $2`
	if err := r.pool.QueryRow(ctx, query, campaignID, workspaceID).Scan(
		&c.ID, &c.WorkspaceID, &c.Name, &c.BookingProcessID, &c.ResponseMode,
		&c.AutoSendConfidenceThreshold, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMsg)
		}
		return Campaign{}, fmt.Errorf("failed to load campaign: %w", err)
	}
	return c, nil
}

// List returns all campaigns in a workspace.
func (r *Repository) List(ctx context.Context, workspaceID uuid.UUID) ([]Campaign, error) {
	query := `
		SELECT id, workspace_id, name, booking_process_id, response_mode, auto_send_confidence_threshold, created_at, updated_at
		FROM campaigns
		WHERE workspace_id = $1
		ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(
			&c.ID, &c.WorkspaceID, &c.Name, &c.BookingProcessID, &c.ResponseMode,
			&c.AutoSendConfidenceThreshold, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// Delete removes a campaign.
func (r *Repository) Delete(ctx context.Context, workspaceID, campaignID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM campaigns WHERE id = $1 AND workspace_id = $2`, campaignID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(campaignNotFoundMsg)
	}
	return nil
}

// ProcessExists reports whether the booking process exists in the workspace.
func (r *Repository) ProcessExists(ctx context.Context, workspaceID, processID uuid.UUID) (bool, error) {
	var count int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM booking_processes WHERE id = $1 AND workspace_id = $2`,
		processID, workspaceID,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check booking process: %w", err)
	}
	return count > 0, nil
}
