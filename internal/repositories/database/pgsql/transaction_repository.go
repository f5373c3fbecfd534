package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for transaction headers
// and entries.
func NewTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts the header and all entries within one database
// transaction: everything commits or nothing does. The unique index on
// source_event_id turns a concurrent double-post into ErrDuplicate, which the
// poster resolves by converging on the winner.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once committed.

	headerQuery := `
		INSERT INTO transactions (transaction_id, tenant_id, description, source_event_id, reverses_transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, headerQuery,
		txn.TransactionID,
		txn.TenantID,
		txn.Description,
		txn.SourceEventID,
		txn.ReversesID,
		txn.CreatedAt,
	)
	if err != nil {
		return translateErr(err)
	}

	entryQuery := `
		INSERT INTO entries (entry_id, transaction_id, account_id, direction, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(entryQuery,
			entry.EntryID,
			entry.TransactionID,
			entry.AccountID,
			entry.Direction,
			entry.Amount,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return translateErr(err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction header scoped to the tenant.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, tenant_id, description, source_event_id, reverses_transaction_id, created_at
		FROM transactions
		WHERE tenant_id = $1 AND transaction_id = $2;
	`
	return r.queryTransaction(ctx, query, tenantID, transactionID)
}

// FindTransactionBySourceEventID retrieves the transaction created for an
// event, if any. This is the idempotency read the poster relies on.
func (r *PgxTransactionRepository) FindTransactionBySourceEventID(ctx context.Context, tenantID, eventID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, tenant_id, description, source_event_id, reverses_transaction_id, created_at
		FROM transactions
		WHERE tenant_id = $1 AND source_event_id = $2;
	`
	return r.queryTransaction(ctx, query, tenantID, eventID)
}

// FindEntriesByTransactionID returns a transaction's entries. Ordered by
// entry id only so repeated reads return a stable order; entry ids are random
// UUIDs, so this is not insertion order.
func (r *PgxTransactionRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	query := `
		SELECT entry_id, transaction_id, account_id, direction, amount
		FROM entries
		WHERE transaction_id = $1
		ORDER BY entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var entry domain.Entry
		if err := rows.Scan(
			&entry.EntryID,
			&entry.TransactionID,
			&entry.AccountID,
			&entry.Direction,
			&entry.Amount,
		); err != nil {
			return nil, translateErr(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return entries, nil
}

func (r *PgxTransactionRepository) queryTransaction(ctx context.Context, query string, args ...any) (*domain.Transaction, error) {
	var txn domain.Transaction
	var sourceEventID, reversesID sql.NullString

	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&txn.TransactionID,
		&txn.TenantID,
		&txn.Description,
		&sourceEventID,
		&reversesID,
		&txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateErr(err)
	}

	if sourceEventID.Valid {
		txn.SourceEventID = &sourceEventID.String
	}
	if reversesID.Valid {
		txn.ReversesID = &reversesID.String
	}
	return &txn, nil
}
