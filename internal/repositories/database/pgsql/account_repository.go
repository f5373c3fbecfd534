package pgsql

import (
	"context"

	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for chart of accounts data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// UpsertAccounts bulk-inserts accounts, silently skipping (tenant_id, code)
// pairs that already exist. The conditional insert is what closes the
// double-bootstrap race: two concurrent first-time callers both run this and
// converge on one account set.
func (r *PgxAccountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	query := `
		INSERT INTO accounts (account_id, tenant_id, code, name, account_type, normal_balance, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, code) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, acc := range accounts {
		batch.Queue(query,
			acc.AccountID,
			acc.TenantID,
			acc.Code,
			acc.Name,
			acc.AccountType,
			acc.NormalBalance,
			acc.CreatedAt,
			acc.CreatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return translateErr(err)
	}
	return nil
}

// FindAccountsByCodes returns the tenant's accounts for the given codes,
// keyed by code. Callers decide whether a missing code is an error.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	query := `
		SELECT account_id, tenant_id, code, name, account_type, normal_balance, created_at, created_by
		FROM accounts
		WHERE tenant_id = $1 AND code = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, codes)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(codes))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts[acc.Code] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return accounts, nil
}

// ListAccounts returns the tenant's full chart ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	query := `
		SELECT account_id, tenant_id, code, name, account_type, normal_balance, created_at, created_by
		FROM accounts
		WHERE tenant_id = $1
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.TenantID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.NormalBalance,
		&acc.CreatedAt,
		&acc.CreatedBy,
	)
	if err != nil {
		return domain.Account{}, translateErr(err)
	}
	return acc, nil
}
