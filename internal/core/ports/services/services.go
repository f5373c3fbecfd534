// Package services defines the service facades exposed by the ledger core to
// its transports (HTTP handlers, the retry sweeper, future queue consumers).
package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/finlytics/ledger-core/internal/core/domain"
)

// AccountSvcFacade is the chart of accounts directory.
type AccountSvcFacade interface {
	// EnsureBootstrapped guarantees the tenant has the full default chart.
	// Safe to call concurrently and repeatedly.
	EnsureBootstrapped(ctx context.Context, tenantID string) error
	// Resolve maps a chart code to its account id, failing with
	// apperrors.ErrUnknownAccount when the code is not registered.
	Resolve(ctx context.Context, tenantID, code string) (string, error)
	// ResolveMany resolves a set of codes in one round trip; any missing code
	// fails the whole call with apperrors.ErrUnknownAccount.
	ResolveMany(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// EventSvcFacade is the append-only event store.
type EventSvcFacade interface {
	Append(ctx context.Context, tenantID, streamType, eventType string, payload json.RawMessage) (*domain.Event, error)
	GetEvent(ctx context.Context, tenantID, eventID string) (*domain.Event, error)
	MarkProcessed(ctx context.Context, eventID string) error
	MarkFailed(ctx context.Context, eventID string, reason string) error
	ListPending(ctx context.Context, tenantID string, limit int) ([]domain.Event, error)
	// ListPendingForRetry returns PENDING events across all tenants that have
	// been sitting longer than olderThan, for the retry sweeper.
	ListPendingForRetry(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Event, error)
	ListUnresolved(ctx context.Context, tenantID string, limit int) ([]domain.Event, error)
}

// PosterSvcFacade commits balanced transactions to the ledger.
type PosterSvcFacade interface {
	// Post validates, resolves and atomically commits a transaction. When
	// sourceEventID already has a transaction the existing one is returned,
	// which is what makes event reprocessing safe.
	Post(ctx context.Context, tenantID, description string, instructions []domain.EntryInstruction, sourceEventID *string) (*domain.Transaction, error)
	// Reverse posts a new transaction mirroring every entry of the original.
	// The original is never mutated.
	Reverse(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)
}

// ProcessorSvcFacade drives the event -> transaction pipeline.
type ProcessorSvcFacade interface {
	// Submit appends the event and immediately attempts to process it. The
	// returned event reflects the post-processing status.
	Submit(ctx context.Context, tenantID, streamType, eventType string, payload json.RawMessage) (*domain.Event, error)
	// Process derives entries for an already-appended event and posts them.
	Process(ctx context.Context, event domain.Event) error
	// Retry re-runs processing for one PENDING or FAILED event.
	Retry(ctx context.Context, tenantID, eventID string) (*domain.Event, error)
	// SweepPending reprocesses up to limit PENDING events older than the
	// cutoff across all tenants and returns how many it attempted.
	SweepPending(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// ReportingSvcFacade is the read-side aggregator.
type ReportingSvcFacade interface {
	Summarize(ctx context.Context, tenantID string, accountTypes []domain.AccountType, from, to time.Time) (*domain.LedgerSummary, error)
	PeriodReport(ctx context.Context, tenantID string, from, to time.Time) (*domain.PeriodReport, error)
}
