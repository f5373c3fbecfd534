package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/finlytics/ledger-core/internal/core/rules"
)

// processorService drives the two-phase pipeline: record the fact first, then
// derive and post its accounting effect. A crash or bug between the two
// phases leaves the event PENDING and reprocessable, never lost.
type processorService struct {
	BaseService
	accountSvc portssvc.AccountSvcFacade
	eventSvc   portssvc.EventSvcFacade
	posterSvc  portssvc.PosterSvcFacade
}

// NewProcessorService creates a new event processor.
func NewProcessorService(accountSvc portssvc.AccountSvcFacade, eventSvc portssvc.EventSvcFacade, posterSvc portssvc.PosterSvcFacade) portssvc.ProcessorSvcFacade {
	return &processorService{
		accountSvc: accountSvc,
		eventSvc:   eventSvc,
		posterSvc:  posterSvc,
	}
}

var _ portssvc.ProcessorSvcFacade = (*processorService)(nil)

// Submit appends the event and immediately attempts to process it. Processing
// failures do not fail the submission: the event is durably recorded either
// way and its status tells the caller what happened.
func (s *processorService) Submit(ctx context.Context, tenantID, streamType, eventType string, payload json.RawMessage) (*domain.Event, error) {
	if err := s.accountSvc.EnsureBootstrapped(ctx, tenantID); err != nil {
		return nil, err
	}

	event, err := s.eventSvc.Append(ctx, tenantID, streamType, eventType, payload)
	if err != nil {
		return nil, err
	}

	if procErr := s.Process(ctx, *event); procErr != nil {
		s.LogWarn(ctx, "Event recorded but processing failed",
			slog.String("event_id", event.EventID),
			slog.String("error", procErr.Error()))
	}

	// Re-read so the caller sees the post-processing status.
	return s.eventSvc.GetEvent(ctx, tenantID, event.EventID)
}

// Process derives entries for an appended event and posts them.
//
// Interpretation failures (unknown type, malformed payload) and deterministic
// posting rejections mark the event FAILED for operator attention. Transient
// store failures leave it PENDING; the idempotent poster makes re-running the
// whole call safe.
func (s *processorService) Process(ctx context.Context, event domain.Event) error {
	if event.Status == domain.EventProcessed {
		return nil
	}

	instructions, err := rules.DeriveEntries(event.EventType, event.Payload)
	if err != nil {
		if markErr := s.eventSvc.MarkFailed(ctx, event.EventID, err.Error()); markErr != nil {
			return fmt.Errorf("failed to mark event %s failed after %v: %w", event.EventID, err, markErr)
		}
		return err
	}

	// Zero-value events are a legitimate no-op: processed, no transaction.
	if len(instructions) == 0 {
		s.LogDebug(ctx, "Event produced no entries, marking processed", slog.String("event_id", event.EventID))
		return s.eventSvc.MarkProcessed(ctx, event.EventID)
	}

	description := rules.Describe(event.EventType, event.Payload)
	txn, err := s.posterSvc.Post(ctx, event.TenantID, description, instructions, &event.EventID)
	if err != nil {
		if apperrors.IsPostingRejection(err) {
			if markErr := s.eventSvc.MarkFailed(ctx, event.EventID, err.Error()); markErr != nil {
				return fmt.Errorf("failed to mark event %s failed after %v: %w", event.EventID, err, markErr)
			}
		}
		return err
	}

	if err := s.eventSvc.MarkProcessed(ctx, event.EventID); err != nil {
		// The transaction exists; the event stays PENDING and the next retry
		// converges through the poster's idempotency check.
		return err
	}

	s.LogInfo(ctx, "Event processed",
		slog.String("event_id", event.EventID),
		slog.String("transaction_id", txn.TransactionID))
	return nil
}

// Retry re-runs processing for one event. PROCESSED events are returned
// unchanged; a FAILED event that now succeeds transitions to PROCESSED via
// the explicit retry path.
func (s *processorService) Retry(ctx context.Context, tenantID, eventID string) (*domain.Event, error) {
	event, err := s.eventSvc.GetEvent(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status != domain.EventProcessed {
		if procErr := s.Process(ctx, *event); procErr != nil {
			s.LogWarn(ctx, "Retry did not resolve event",
				slog.String("event_id", eventID),
				slog.String("error", procErr.Error()))
		}
	}

	return s.eventSvc.GetEvent(ctx, tenantID, eventID)
}

// SweepPending reprocesses stale PENDING events. Used by the periodic retry
// loop; each event is processed independently so one failure does not stop
// the sweep.
func (s *processorService) SweepPending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	events, err := s.eventSvc.ListPendingForRetry(ctx, olderThan, limit)
	if err != nil {
		return 0, err
	}

	attempted := 0
	for _, event := range events {
		if ctx.Err() != nil {
			return attempted, ctx.Err()
		}
		attempted++
		if err := s.Process(ctx, event); err != nil {
			s.LogWarn(ctx, "Sweep could not process event",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()))
		}
	}
	return attempted, nil
}
