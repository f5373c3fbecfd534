package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/finlytics/ledger-core/internal/utils/accounting"
)

// posterService commits balanced transactions to the ledger.
type posterService struct {
	BaseService
	accountSvc portssvc.AccountSvcFacade
	txnRepo    portsrepo.TransactionRepository
}

// NewPosterService creates a new transaction poster.
func NewPosterService(txnRepo portsrepo.TransactionRepository, accountSvc portssvc.AccountSvcFacade) portssvc.PosterSvcFacade {
	return &posterService{
		accountSvc: accountSvc,
		txnRepo:    txnRepo,
	}
}

var _ portssvc.PosterSvcFacade = (*posterService)(nil)

// Post validates the balance invariant, resolves account codes, checks
// idempotency on the source event and commits header plus entries atomically.
// The pre-checks run before any write, so a rejected posting leaves nothing
// behind.
func (s *posterService) Post(ctx context.Context, tenantID, description string, instructions []domain.EntryInstruction, sourceEventID *string) (*domain.Transaction, error) {
	// 1. Balance invariant, exact decimal comparison.
	if err := accounting.ValidateBalanced(instructions); err != nil {
		return nil, err
	}

	// 2. Resolve every account code; any miss aborts with ErrUnknownAccount.
	codes := make([]string, 0, len(instructions))
	for _, in := range instructions {
		codes = append(codes, in.AccountCode)
	}
	accounts, err := s.accountSvc.ResolveMany(ctx, tenantID, codes)
	if err != nil {
		return nil, err
	}

	// 3. Idempotency: an event that already produced a transaction returns the
	// existing one instead of creating a duplicate.
	if sourceEventID != nil {
		existing, err := s.txnRepo.FindTransactionBySourceEventID(ctx, tenantID, *sourceEventID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Idempotency lookup failed", slog.String("source_event_id", *sourceEventID))
			return nil, fmt.Errorf("failed idempotency lookup for event %s: %w", *sourceEventID, err)
		}
		if existing != nil {
			s.LogInfo(ctx, "Event already posted, returning existing transaction",
				slog.String("source_event_id", *sourceEventID),
				slog.String("transaction_id", existing.TransactionID))
			return existing, nil
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		TenantID:      tenantID,
		Description:   description,
		SourceEventID: sourceEventID,
		CreatedAt:     now,
	}

	entries := make([]domain.Entry, len(instructions))
	for i, in := range instructions {
		entries[i] = domain.Entry{
			EntryID:       uuid.NewString(),
			TransactionID: txn.TransactionID,
			AccountID:     accounts[in.AccountCode].AccountID,
			Direction:     in.Direction,
			Amount:        in.Amount,
		}
	}

	// 4. Atomic commit: header and all entries, or nothing.
	if err := s.txnRepo.SaveTransaction(ctx, txn, entries); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && sourceEventID != nil {
			// A concurrent poster won the unique constraint race on
			// source_event_id; converge on its transaction.
			winner, findErr := s.txnRepo.FindTransactionBySourceEventID(ctx, tenantID, *sourceEventID)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load transaction after duplicate posting of event %s: %w", *sourceEventID, findErr)
			}
			s.LogInfo(ctx, "Lost posting race, converged on existing transaction",
				slog.String("source_event_id", *sourceEventID),
				slog.String("transaction_id", winner.TransactionID))
			return winner, nil
		}
		s.LogError(ctx, err, "Failed to save transaction", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("tenant_id", tenantID),
		slog.Int("entry_count", len(entries)))
	txn.Entries = entries
	return &txn, nil
}

// Reverse posts a new transaction mirroring every entry of the original.
// Corrections never mutate posted transactions.
func (s *posterService) Reverse(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	original, err := s.GetTransaction(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if original.ReversesID != nil {
		return nil, fmt.Errorf("%w: transaction %s is itself a reversal", apperrors.ErrValidation, transactionID)
	}

	now := time.Now().UTC()
	reversal := domain.Transaction{
		TransactionID: uuid.NewString(),
		TenantID:      tenantID,
		Description:   fmt.Sprintf("Reversal of: %s", original.Description),
		ReversesID:    &original.TransactionID,
		CreatedAt:     now,
	}

	entries := make([]domain.Entry, len(original.Entries))
	for i, e := range original.Entries {
		entries[i] = domain.Entry{
			EntryID:       uuid.NewString(),
			TransactionID: reversal.TransactionID,
			AccountID:     e.AccountID,
			Direction:     e.Direction.Opposite(),
			Amount:        e.Amount,
		}
	}

	if err := s.txnRepo.SaveTransaction(ctx, reversal, entries); err != nil {
		s.LogError(ctx, err, "Failed to save reversing transaction", slog.String("original_transaction_id", transactionID))
		return nil, fmt.Errorf("failed to save reversing transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction reversed",
		slog.String("original_transaction_id", transactionID),
		slog.String("reversing_transaction_id", reversal.TransactionID))
	reversal.Entries = entries
	return &reversal, nil
}

// GetTransaction returns the header with its entries populated.
func (s *posterService) GetTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, tenantID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	entries, err := s.txnRepo.FindEntriesByTransactionID(ctx, txn.TransactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to fetch entries for transaction %s: %w", transactionID, err)
	}
	txn.Entries = entries
	return txn, nil
}
