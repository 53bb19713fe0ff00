package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach_backend/internal/progression/domain"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const progressNotFoundMsg = "lead progress not found"

// ── Database models ───────────────────────────────────────────────────────────

// ProgressRecord is the database model for per-lead tracker state.
type ProgressRecord struct {
	ID               uuid.UUID
	WorkspaceID      uuid.UUID
	LeadID           uuid.UUID
	BookingProcessID uuid.UUID
	CurrentWave      int
	OutboundCount    int
	BookedAt         *time.Time
	LastActivityWave int
	ArchivedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ToDomain converts the record into the pure tracker state.
func (r ProgressRecord) ToDomain() domain.LeadProgress {
	return domain.LeadProgress{
		LeadID:           r.LeadID,
		BookingProcessID: r.BookingProcessID,
		CurrentWave:      r.CurrentWave,
		OutboundCount:    r.OutboundCount,
		BookedAt:         r.BookedAt,
		LastActivityWave: r.LastActivityWave,
	}
}

// ApplyOutboundParams describes one outbound event delivery.
type ApplyOutboundParams struct {
	EventID          string
	WorkspaceID      uuid.UUID
	LeadID           uuid.UUID
	BookingProcessID uuid.UUID
	Wave             int
	Channel          string
	ChannelAddress   string
	OccurredAt       time.Time
}

// ApplyBookedParams describes one booking event delivery.
type ApplyBookedParams struct {
	EventID          string
	WorkspaceID      uuid.UUID
	LeadID           uuid.UUID
	BookingProcessID uuid.UUID
	BookedAt         time.Time
}

// ApplyOutcome reports what an event delivery did.
type ApplyOutcome struct {
	// Applied is false for redelivered (duplicate) events.
	Applied bool
	// AlreadyBooked is true when a booking event arrived for a lead that
	// was booked earlier; the first booking wins.
	AlreadyBooked bool
	Progress      ProgressRecord
}

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides database operations for lead progression. Updates for
// a given lead are serialized with a row lock inside a transaction; leads
// progress independently of each other.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new progression repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ApplyOutbound records one outbound event idempotently and advances the
// lead's tracker state. Redelivered events (same event id) are no-ops.
func (r *Repository) ApplyOutbound(ctx context.Context, params ApplyOutboundParams) (ApplyOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ApplyOutcome{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted, err := insertEvent(ctx, tx, eventRow{
		EventID:          params.EventID,
		WorkspaceID:      params.WorkspaceID,
		LeadID:           params.LeadID,
		BookingProcessID: params.BookingProcessID,
		EventType:        "outbound_sent",
		Wave:             &params.Wave,
		Channel:          &params.Channel,
		ChannelAddress:   nullableString(params.ChannelAddress),
		OccurredAt:       params.OccurredAt,
	})
	if err != nil {
		return ApplyOutcome{}, err
	}
	if !inserted {
		return ApplyOutcome{Applied: false}, tx.Commit(ctx)
	}

	record, err := lockOrCreateProgress(ctx, tx, params.WorkspaceID, params.LeadID, params.BookingProcessID)
	if err != nil {
		return ApplyOutcome{}, err
	}

	next := domain.ApplyOutbound(record.ToDomain(), domain.OutboundSent{
		Wave:    params.Wave,
		Channel: params.Channel,
		At:      params.OccurredAt,
	})
	record, err = saveProgress(ctx, tx, record.ID, next)
	if err != nil {
		return ApplyOutcome{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ApplyOutcome{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ApplyOutcome{Applied: true, Progress: record}, nil
}

// ApplyBooked records one booking event idempotently. The first booking
// wins; later bookings are flagged, not applied.
func (r *Repository) ApplyBooked(ctx context.Context, params ApplyBookedParams) (ApplyOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ApplyOutcome{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted, err := insertEvent(ctx, tx, eventRow{
		EventID:          params.EventID,
		WorkspaceID:      params.WorkspaceID,
		LeadID:           params.LeadID,
		BookingProcessID: params.BookingProcessID,
		EventType:        "booked",
		OccurredAt:       params.BookedAt,
	})
	if err != nil {
		return ApplyOutcome{}, err
	}
	if !inserted {
		return ApplyOutcome{Applied: false}, tx.Commit(ctx)
	}

	record, err := lockOrCreateProgress(ctx, tx, params.WorkspaceID, params.LeadID, params.BookingProcessID)
	if err != nil {
		return ApplyOutcome{}, err
	}

	next, applied := domain.ApplyBooked(record.ToDomain(), domain.Booked{At: params.BookedAt})
	if !applied {
		// Event id is still consumed so redeliveries stay idempotent.
		if err := tx.Commit(ctx); err != nil {
			return ApplyOutcome{}, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return ApplyOutcome{Applied: false, AlreadyBooked: true, Progress: record}, nil
	}

	record, err = saveProgress(ctx, tx, record.ID, next)
	if err != nil {
		return ApplyOutcome{}, err
	}

	bookingQuery := `
		INSERT INTO booking_events (lead_id, workspace_id, booking_process_id, booked_at, outbound_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lead_id) DO NOTHING`
	if _, err := tx.Exec(ctx, bookingQuery,
		params.LeadID, params.WorkspaceID, params.BookingProcessID, params.BookedAt, record.OutboundCount,
	); err != nil {
		return ApplyOutcome{}, fmt.Errorf("failed to insert booking event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ApplyOutcome{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ApplyOutcome{Applied: true, Progress: record}, nil
}

// Reassign archives the lead's active tracker record (kept for historical
// analytics) and creates a fresh record at wave 1 for the new process.
func (r *Repository) Reassign(ctx context.Context, workspaceID, leadID, newProcessID uuid.UUID) (ProgressRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ProgressRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE lead_progress SET archived_at = now(), updated_at = now()
		WHERE workspace_id = $1 AND lead_id = $2 AND archived_at IS NULL`,
		workspaceID, leadID,
	); err != nil {
		return ProgressRecord{}, fmt.Errorf("failed to archive lead progress: %w", err)
	}

	record := ProgressRecord{
		ID:               uuid.New(),
		WorkspaceID:      workspaceID,
		LeadID:           leadID,
		BookingProcessID: newProcessID,
		CurrentWave:      1,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO lead_progress (id, workspace_id, lead_id, booking_process_id, current_wave)
		VALUES ($1, $2, $3, $4, 1)
		RETURNING created_at, updated_at`,
		record.ID, workspaceID, leadID, newProcessID,
	).Scan(&record.CreatedAt, &record.UpdatedAt); err != nil {
		return ProgressRecord{}, fmt.Errorf("failed to create lead progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ProgressRecord{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return record, nil
}

// GetActive returns the lead's current (non-archived) tracker record.
func (r *Repository) GetActive(ctx context.Context, workspaceID, leadID uuid.UUID) (ProgressRecord, error) {
	var record ProgressRecord
	query := `
		SELECT id, workspace_id, lead_id, booking_process_id, current_wave, outbound_count,
		       booked_at, last_activity_wave, archived_at, created_at, updated_at
		FROM lead_progress
		WHERE workspace_id = $1 AND lead_id = $2 AND archived_at IS NULL`
	if err := r.pool.QueryRow(ctx, query, workspaceID, leadID).Scan(
		&record.ID, &record.WorkspaceID, &record.LeadID, &record.BookingProcessID,
		&record.CurrentWave, &record.OutboundCount, &record.BookedAt,
		&record.LastActivityWave, &record.ArchivedAt, &record.CreatedAt, &record.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProgressRecord{}, apperr.NotFound(progressNotFoundMsg)
		}
		return ProgressRecord{}, fmt.Errorf("failed to load lead progress: %w", err)
	}
	return record, nil
}

// ListByProcess returns tracker snapshots for a process, archived records
// included, so aggregates cover the full history.
func (r *Repository) ListByProcess(ctx context.Context, workspaceID, processID uuid.UUID) ([]ProgressRecord, error) {
	query := `
		SELECT id, workspace_id, lead_id, booking_process_id, current_wave, outbound_count,
		       booked_at, last_activity_wave, archived_at, created_at, updated_at
		FROM lead_progress
		WHERE workspace_id = $1 AND booking_process_id = $2
		ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, workspaceID, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lead progress: %w", err)
	}
	defer rows.Close()

	var records []ProgressRecord
	for rows.Next() {
		var record ProgressRecord
		if err := rows.Scan(
			&record.ID, &record.WorkspaceID, &record.LeadID, &record.BookingProcessID,
			&record.CurrentWave, &record.OutboundCount, &record.BookedAt,
			&record.LastActivityWave, &record.ArchivedAt, &record.CreatedAt, &record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lead progress: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteArchivedBefore removes archived records past the retention window.
// Returns the number of rows removed.
func (r *Repository) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM lead_progress WHERE archived_at IS NOT NULL AND archived_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete archived lead progress: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ── Transaction helpers ───────────────────────────────────────────────────────

type eventRow struct {
	EventID          string
	WorkspaceID      uuid.UUID
	LeadID           uuid.UUID
	BookingProcessID uuid.UUID
	EventType        string
	Wave             *int
	Channel          *string
	ChannelAddress   *string
	OccurredAt       time.Time
}

func insertEvent(ctx context.Context, tx pgx.Tx, row eventRow) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO progression_events (event_id, workspace_id, lead_id, booking_process_id, event_type, wave, channel, channel_address, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (event_id) DO NOTHING`,
		row.EventID, row.WorkspaceID, row.LeadID, row.BookingProcessID,
		row.EventType, row.Wave, row.Channel, row.ChannelAddress, row.OccurredAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert progression event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// lockOrCreateProgress loads the lead's active tracker row FOR UPDATE,
// creating it at wave 1 on first contact. The row lock serializes all
// updates for one lead while leaving other leads untouched.
func lockOrCreateProgress(ctx context.Context, tx pgx.Tx, workspaceID, leadID, processID uuid.UUID) (ProgressRecord, error) {
	var record ProgressRecord
	query := `
		SELECT id, workspace_id, lead_id, booking_process_id, current_wave, outbound_count,
		       booked_at, last_activity_wave, archived_at, created_at, updated_at
		FROM lead_progress
		WHERE workspace_id = $1 AND lead_id = $2 AND booking_process_id = $3 AND archived_at IS NULL
		FOR UPDATE`
	err := tx.QueryRow(ctx, query, workspaceID, leadID, processID).Scan(
		&record.ID, &record.WorkspaceID, &record.LeadID, &record.BookingProcessID,
		&record.CurrentWave, &record.OutboundCount, &record.BookedAt,
		&record.LastActivityWave, &record.ArchivedAt, &record.CreatedAt, &record.UpdatedAt,
	)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return ProgressRecord{}, fmt.Errorf("failed to lock lead progress: %w", err)
	}

	record = ProgressRecord{
		ID:               uuid.New(),
		WorkspaceID:      workspaceID,
		LeadID:           leadID,
		BookingProcessID: processID,
		CurrentWave:      1,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO lead_progress (id, workspace_id, lead_id, booking_process_id, current_wave)
		VALUES ($1, $2, $3, $4, 1)
		RETURNING created_at, updated_at`,
		record.ID, workspaceID, leadID, processID,
	).Scan(&record.CreatedAt, &record.UpdatedAt); err != nil {
		return ProgressRecord{}, fmt.Errorf("failed to create lead progress: %w", err)
	}
	return record, nil
}

func saveProgress(ctx context.Context, tx pgx.Tx, id uuid.UUID, p domain.LeadProgress) (ProgressRecord, error) {
	var record ProgressRecord
	query := `
		UPDATE lead_progress
		SET current_wave = $1, outbound_count = $2, booked_at = $3, last_activity_wave = $4, updated_at = now()
		WHERE id = $5
		RETURNING id, workspace_id, lead_id, booking_process_id, current_wave, outbound_count,
		          booked_at, last_activity_wave, archived_at, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		p.CurrentWave, p.OutboundCount, p.BookedAt, p.LastActivityWave, id,
	).Scan(
		&record.ID, &record.WorkspaceID, &record.LeadID, &record.BookingProcessID,
		&record.CurrentWave, &record.OutboundCount, &record.BookedAt,
		&record.LastActivityWave, &record.ArchivedAt, &record.CreatedAt, &record.UpdatedAt,
	); err != nil {
		return ProgressRecord{}, fmt.Errorf("failed to save lead progress: %w", err)
	}
	return record, nil
}
