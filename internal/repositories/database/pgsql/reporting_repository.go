package pgsql

import (
	"context"
	"time"

	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	BaseRepository
}

// NewReportingRepository creates a new read-side aggregation repository.
func NewReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetAccountSummaries sums raw entries per account over [from, to], joined to
// their transaction's timestamp and restricted to the tenant. There is no
// stored balance column anywhere; this aggregation is the only source of
// balances, which keeps the books auditable by construction.
func (r *PgxReportingRepository) GetAccountSummaries(ctx context.Context, tenantID string, accountTypes []domain.AccountType, from, to time.Time) ([]domain.AccountSummaryRow, error) {
	query := `
		SELECT
			a.code,
			a.name,
			a.account_type,
			COALESCE(SUM(CASE WHEN e.direction = 'DEBIT' THEN e.amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN e.direction = 'CREDIT' THEN e.amount ELSE 0 END), 0) AS total_credit
		FROM entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		JOIN accounts a ON e.account_id = a.account_id
		WHERE t.tenant_id = $1
			AND t.created_at >= $2
			AND t.created_at <= $3
			AND ($4::text[] IS NULL OR a.account_type = ANY($4))
		GROUP BY a.code, a.name, a.account_type
		ORDER BY a.code;
	`

	var typeFilter []string
	if len(accountTypes) > 0 {
		typeFilter = make([]string, len(accountTypes))
		for i, t := range accountTypes {
			typeFilter[i] = string(t)
		}
	}

	rows, err := r.Pool.Query(ctx, query, tenantID, from, to, typeFilter)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	result := make([]domain.AccountSummaryRow, 0)
	for rows.Next() {
		var row domain.AccountSummaryRow
		if err := rows.Scan(
			&row.AccountCode,
			&row.AccountName,
			&row.AccountType,
			&row.TotalDebit,
			&row.TotalCredit,
		); err != nil {
			return nil, translateErr(err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return result, nil
}
