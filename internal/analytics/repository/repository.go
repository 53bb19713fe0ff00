// Package repository provides windowed reads over tracker snapshots and
// booking events for analytics recomputation.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach_backend/internal/analytics/domain"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Window bounds an aggregation query. Zero bounds are open.
type Window struct {
	From time.Time
	To   time.Time
}

// Repository reads aggregation inputs and persists attribution results.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new analytics repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListProcessIDs returns every booking process id in the workspace.
func (r *Repository) ListProcessIDs(ctx context.Context, workspaceID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM booking_processes WHERE workspace_id = $1 ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking processes: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan process id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// The tracker keeps counting outbounds after a booking, so booked leads
// read their count from the booking event, frozen at booking time. The
// join is restricted to booked rows; an archived non-booked assignment
// must not inherit a count from a later booking of the same lead.
const listSnapshotsQuery = `
	SELECT lp.lead_id,
	       COALESCE(be.outbound_count, lp.outbound_count),
	       lp.booked_at, lp.last_activity_wave
	FROM lead_progress lp
	LEFT JOIN booking_events be
	  ON be.workspace_id = lp.workspace_id AND be.lead_id = lp.lead_id
	  AND lp.booked_at IS NOT NULL
	WHERE lp.workspace_id = $1 AND lp.booking_process_id = $2
	  AND ($3::timestamptz IS NULL OR lp.created_at >= $3)
	  AND ($4::timestamptz IS NULL OR lp.created_at < $4)`

// ListSnapshots returns tracker snapshots for one process within the
// window, archived records included so historical assignments keep
// counting.
func (r *Repository) ListSnapshots(ctx context.Context, workspaceID, processID uuid.UUID, w Window) ([]domain.LeadSnapshot, error) {
	rows, err := r.pool.Query(ctx, listSnapshotsQuery, workspaceID, processID, nullableTime(w.From), nullableTime(w.To))
	if err != nil {
		return nil, fmt.Errorf("failed to list lead snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.LeadSnapshot
	for rows.Next() {
		var s domain.LeadSnapshot
		if err := rows.Scan(&s.LeadID, &s.OutboundCount, &s.BookedAt, &s.LastActivityWave); err != nil {
			return nil, fmt.Errorf("failed to scan lead snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// ListBookings returns booking events in the workspace within the window.
func (r *Repository) ListBookings(ctx context.Context, workspaceID uuid.UUID, w Window) ([]domain.BookingRecord, error) {
	query := `
		SELECT lead_id, booked_at, attributed_sequence_id, attributed_step_index
		FROM booking_events
		WHERE workspace_id = $1
		  AND ($2::timestamptz IS NULL OR booked_at >= $2)
		  AND ($3::timestamptz IS NULL OR booked_at < $3)
		ORDER BY booked_at`
	rows, err := r.pool.Query(ctx, query, workspaceID, nullableTime(w.From), nullableTime(w.To))
	if err != nil {
		return nil, fmt.Errorf("failed to list booking events: %w", err)
	}
	defer rows.Close()

	var records []domain.BookingRecord
	for rows.Next() {
		var record domain.BookingRecord
		if err := rows.Scan(&record.LeadID, &record.BookedAt, &record.AttributedSequenceID, &record.AttributedStepIndex); err != nil {
			return nil, fmt.Errorf("failed to scan booking event: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetBooking returns the lead's booking event.
func (r *Repository) GetBooking(ctx context.Context, workspaceID, leadID uuid.UUID) (domain.BookingRecord, error) {
	var record domain.BookingRecord
	query := `
		SELECT lead_id, booked_at, attributed_sequence_id, attributed_step_index
		FROM booking_events
		WHERE workspace_id = $1 AND lead_id = $2`
	if err := r.pool.QueryRow(ctx, query, workspaceID, leadID).Scan(
		&record.LeadID, &record.BookedAt, &record.AttributedSequenceID, &record.AttributedStepIndex,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BookingRecord{}, apperr.NotFound("booking not found")
		}
		return domain.BookingRecord{}, fmt.Errorf("failed to load booking event: %w", err)
	}
	return record, nil
}

// SaveAttribution stores the attribution result on the booking event.
func (r *Repository) SaveAttribution(ctx context.Context, workspaceID, leadID uuid.UUID, att domain.Attribution) error {
	var sequenceID *uuid.UUID
	var stepIndex *int
	if att.Attributed {
		sequenceID = &att.SequenceID
		stepIndex = &att.StepIndex
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE booking_events
		SET attributed_sequence_id = $1, attributed_step_index = $2, attribution_provisional = $3
		WHERE workspace_id = $4 AND lead_id = $5`,
		sequenceID, stepIndex, att.Provisional, workspaceID, leadID)
	if err != nil {
		return fmt.Errorf("failed to save attribution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("booking not found")
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
