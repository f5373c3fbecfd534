package dto

import (
	"time"

	"github.com/finlytics/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountSummaryResponse is the per-account aggregation row.
type AccountSummaryResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// SummaryResponse is the raw aggregation over a window.
type SummaryResponse struct {
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
	ByAccount   []AccountSummaryResponse `json:"byAccount"`
}

// PeriodReportResponse is the composed dashboard report.
type PeriodReportResponse struct {
	From            time.Time                `json:"from"`
	To              time.Time                `json:"to"`
	Revenue         decimal.Decimal          `json:"revenue"`
	Expense         decimal.Decimal          `json:"expense"`
	NetResult       decimal.Decimal          `json:"netResult"`
	SpendEfficiency decimal.Decimal          `json:"spendEfficiency"`
	RevenueAccounts []AccountSummaryResponse `json:"revenueAccounts"`
	ExpenseAccounts []AccountSummaryResponse `json:"expenseAccounts"`
}

func toAccountSummaryResponses(rows []domain.AccountSummaryRow) []AccountSummaryResponse {
	out := make([]AccountSummaryResponse, len(rows))
	for i, r := range rows {
		out[i] = AccountSummaryResponse{
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: string(r.AccountType),
			TotalDebit:  r.TotalDebit,
			TotalCredit: r.TotalCredit,
		}
	}
	return out
}

// ToSummaryResponse maps a domain ledger summary.
func ToSummaryResponse(s *domain.LedgerSummary) SummaryResponse {
	return SummaryResponse{
		TotalDebit:  s.TotalDebit,
		TotalCredit: s.TotalCredit,
		ByAccount:   toAccountSummaryResponses(s.ByAccount),
	}
}

// ToPeriodReportResponse maps a domain period report.
func ToPeriodReportResponse(r *domain.PeriodReport) PeriodReportResponse {
	return PeriodReportResponse{
		From:            r.From,
		To:              r.To,
		Revenue:         r.Revenue,
		Expense:         r.Expense,
		NetResult:       r.NetResult,
		SpendEfficiency: r.SpendEfficiency,
		RevenueAccounts: toAccountSummaryResponses(r.RevenueAccounts),
		ExpenseAccounts: toAccountSummaryResponses(r.ExpenseAccounts),
	}
}
