package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEventRepository struct {
	BaseRepository
}

// NewEventRepository creates a new repository for the append-only event log.
func NewEventRepository(pool *pgxpool.Pool) portsrepo.EventRepository {
	return &PgxEventRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EventRepository = (*PgxEventRepository)(nil)

// SaveEvent appends one immutable event row in PENDING state.
func (r *PgxEventRepository) SaveEvent(ctx context.Context, event domain.Event) error {
	query := `
		INSERT INTO events (event_id, tenant_id, stream_type, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		event.EventID,
		event.TenantID,
		event.StreamType,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
	)
	if err != nil {
		return translateErr(err)
	}
	return nil
}

// FindEventByID retrieves one event scoped to the tenant.
func (r *PgxEventRepository) FindEventByID(ctx context.Context, tenantID, eventID string) (*domain.Event, error) {
	query := `
		SELECT event_id, tenant_id, stream_type, event_type, payload, status, failure_reason, created_at
		FROM events
		WHERE tenant_id = $1 AND event_id = $2;
	`
	event, err := scanEvent(r.Pool.QueryRow(ctx, query, tenantID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateErr(err)
	}
	return &event, nil
}

// MarkProcessed transitions an event to PROCESSED. A no-op when the event is
// already PROCESSED, so retried workers never error; FAILED events may still
// transition here through the explicit retry path once their cause is fixed.
func (r *PgxEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	query := `
		UPDATE events
		SET status = $1, failure_reason = NULL
		WHERE event_id = $2 AND status <> $1;
	`
	_, err := r.Pool.Exec(ctx, query, domain.EventProcessed, eventID)
	if err != nil {
		return translateErr(err)
	}
	return nil
}

// MarkFailed transitions a PENDING event to FAILED with a reason. A no-op on
// events already in a terminal state: PROCESSED is never downgraded and the
// first failure reason is preserved.
func (r *PgxEventRepository) MarkFailed(ctx context.Context, eventID string, reason string) error {
	query := `
		UPDATE events
		SET status = $1, failure_reason = $2
		WHERE event_id = $3 AND status = $4;
	`
	_, err := r.Pool.Exec(ctx, query, domain.EventFailed, reason, eventID, domain.EventPending)
	if err != nil {
		return translateErr(err)
	}
	return nil
}

// ListPending returns the tenant's PENDING events, oldest first.
func (r *PgxEventRepository) ListPending(ctx context.Context, tenantID string, limit int) ([]domain.Event, error) {
	query := `
		SELECT event_id, tenant_id, stream_type, event_type, payload, status, failure_reason, created_at
		FROM events
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at
		LIMIT $3;
	`
	return r.queryEvents(ctx, query, tenantID, domain.EventPending, limit)
}

// ListPendingOlderThan returns stale PENDING events across all tenants for
// the retry sweeper.
func (r *PgxEventRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.Event, error) {
	query := `
		SELECT event_id, tenant_id, stream_type, event_type, payload, status, failure_reason, created_at
		FROM events
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3;
	`
	return r.queryEvents(ctx, query, domain.EventPending, cutoff, limit)
}

// ListUnresolved returns the tenant's PENDING and FAILED events, oldest first.
func (r *PgxEventRepository) ListUnresolved(ctx context.Context, tenantID string, limit int) ([]domain.Event, error) {
	query := `
		SELECT event_id, tenant_id, stream_type, event_type, payload, status, failure_reason, created_at
		FROM events
		WHERE tenant_id = $1 AND status IN ($2, $3)
		ORDER BY created_at
		LIMIT $4;
	`
	return r.queryEvents(ctx, query, tenantID, domain.EventPending, domain.EventFailed, limit)
}

func (r *PgxEventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, translateErr(err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return events, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var event domain.Event
	var failureReason sql.NullString
	err := row.Scan(
		&event.EventID,
		&event.TenantID,
		&event.StreamType,
		&event.EventType,
		&event.Payload,
		&event.Status,
		&failureReason,
		&event.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	if failureReason.Valid {
		event.FailureReason = failureReason.String
	}
	return event, nil
}
