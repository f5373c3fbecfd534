// Package repositories defines the persistence ports consumed by the core
// services. Implementations live under internal/repositories/database.
package repositories

import (
	"context"
	"time"

	"github.com/finlytics/ledger-core/internal/core/domain"
)

// AccountRepository is the persistence port for the chart of accounts.
type AccountRepository interface {
	// UpsertAccounts inserts the given accounts, skipping any (tenant, code)
	// pair that already exists. This is a single conditional bulk write so two
	// concurrent bootstrappers converge without a check-then-act race.
	UpsertAccounts(ctx context.Context, accounts []domain.Account) error
	// FindAccountsByCodes returns the tenant's accounts for the given codes,
	// keyed by code. Missing codes are simply absent from the map.
	FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error)
	// ListAccounts returns the tenant's full chart ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// EventRepository is the persistence port for the append-only event store.
type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.Event) error
	FindEventByID(ctx context.Context, tenantID, eventID string) (*domain.Event, error)
	// MarkProcessed transitions a PENDING event to PROCESSED. It is a no-op,
	// not an error, when the event is already terminal.
	MarkProcessed(ctx context.Context, eventID string) error
	// MarkFailed transitions a PENDING event to FAILED with a reason. No-op on
	// already terminal events.
	MarkFailed(ctx context.Context, eventID string, reason string) error
	ListPending(ctx context.Context, tenantID string, limit int) ([]domain.Event, error)
	// ListPendingOlderThan returns PENDING events across all tenants created
	// before the cutoff. Used by the retry sweeper; the cutoff keeps it from
	// racing freshly submitted events still being processed in-request.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.Event, error)
	// ListUnresolved returns PENDING and FAILED events for operator attention.
	ListUnresolved(ctx context.Context, tenantID string, limit int) ([]domain.Event, error)
}

// TransactionRepository is the persistence port for transaction headers and
// their entries.
type TransactionRepository interface {
	// SaveTransaction inserts the header and all entries in one database
	// transaction; on any failure nothing persists. A source_event_id
	// uniqueness violation surfaces as apperrors.ErrDuplicate.
	SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry) error
	FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)
	FindTransactionBySourceEventID(ctx context.Context, tenantID, eventID string) (*domain.Transaction, error)
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error)
}

// ReportingRepository is the read-side port aggregating raw entries. It never
// reads derived balance columns; none exist.
type ReportingRepository interface {
	// GetAccountSummaries sums entries per account over [from, to], optionally
	// restricted to the given account types (nil means all).
	GetAccountSummaries(ctx context.Context, tenantID string, accountTypes []domain.AccountType, from, to time.Time) ([]domain.AccountSummaryRow, error)
}
