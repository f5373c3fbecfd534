package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
)

const defaultEventListLimit = 50

// eventService implements the append-only event store facade. It records
// facts and tracks their processing status; it never validates business
// semantics of the payload, which is the posting rules engine's job.
type eventService struct {
	BaseService
	eventRepo portsrepo.EventRepository
}

// NewEventService creates a new event store service.
func NewEventService(eventRepo portsrepo.EventRepository) portssvc.EventSvcFacade {
	return &eventService{eventRepo: eventRepo}
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

// Append durably records an event in PENDING state.
func (s *eventService) Append(ctx context.Context, tenantID, streamType, eventType string, payload json.RawMessage) (*domain.Event, error) {
	if tenantID == "" || eventType == "" {
		return nil, fmt.Errorf("%w: tenant id and event type are required", apperrors.ErrValidation)
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	event := domain.Event{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		StreamType: streamType,
		EventType:  eventType,
		Payload:    payload,
		Status:     domain.EventPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to append event", slog.String("tenant_id", tenantID), slog.String("event_type", eventType))
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	s.LogInfo(ctx, "Event appended", slog.String("event_id", event.EventID), slog.String("event_type", eventType))
	return &event, nil
}

// GetEvent fetches one event scoped to the tenant.
func (s *eventService) GetEvent(ctx context.Context, tenantID, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.FindEventByID(ctx, tenantID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to find event %s: %w", eventID, err)
	}
	return event, nil
}

// MarkProcessed records the terminal PROCESSED state. Already-terminal events
// are left untouched so retried workers do not error.
func (s *eventService) MarkProcessed(ctx context.Context, eventID string) error {
	if err := s.eventRepo.MarkProcessed(ctx, eventID); err != nil {
		s.LogError(ctx, err, "Failed to mark event processed", slog.String("event_id", eventID))
		return fmt.Errorf("failed to mark event %s processed: %w", eventID, err)
	}
	return nil
}

// MarkFailed records the terminal FAILED state with a reason for operators.
func (s *eventService) MarkFailed(ctx context.Context, eventID string, reason string) error {
	if err := s.eventRepo.MarkFailed(ctx, eventID, reason); err != nil {
		s.LogError(ctx, err, "Failed to mark event failed", slog.String("event_id", eventID))
		return fmt.Errorf("failed to mark event %s failed: %w", eventID, err)
	}
	return nil
}

// ListPending returns the tenant's PENDING events for replay after partial
// failures.
func (s *eventService) ListPending(ctx context.Context, tenantID string, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = defaultEventListLimit
	}
	events, err := s.eventRepo.ListPending(ctx, tenantID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending events", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list pending events: %w", err)
	}
	return events, nil
}

// ListPendingForRetry returns stale PENDING events across all tenants. The
// age cutoff keeps the sweeper from racing events still being processed
// synchronously in-request.
func (s *eventService) ListPendingForRetry(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = defaultEventListLimit
	}
	cutoff := time.Now().UTC().Add(-olderThan)
	events, err := s.eventRepo.ListPendingOlderThan(ctx, cutoff, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending events for retry")
		return nil, fmt.Errorf("failed to list pending events for retry: %w", err)
	}
	return events, nil
}

// ListUnresolved returns PENDING and FAILED events for the ops surface.
func (s *eventService) ListUnresolved(ctx context.Context, tenantID string, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = defaultEventListLimit
	}
	events, err := s.eventRepo.ListUnresolved(ctx, tenantID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list unresolved events", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list unresolved events: %w", err)
	}
	return events, nil
}
