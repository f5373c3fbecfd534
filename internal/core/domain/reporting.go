package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSummaryRow is the per-account aggregation of entries over a window.
type AccountSummaryRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// Net returns the row's balance oriented to the account's normal side, so a
// healthy revenue account reports positive.
func (r AccountSummaryRow) Net() decimal.Decimal {
	if NormalBalanceFor(r.AccountType) == Debit {
		return r.TotalDebit.Sub(r.TotalCredit)
	}
	return r.TotalCredit.Sub(r.TotalDebit)
}

// LedgerSummary is the result of aggregating raw entries for a tenant over a
// date window, optionally filtered by account type.
type LedgerSummary struct {
	TotalDebit  decimal.Decimal     `json:"totalDebit"`
	TotalCredit decimal.Decimal     `json:"totalCredit"`
	ByAccount   []AccountSummaryRow `json:"byAccount"`
}

// PeriodReport is the composed financial summary served to dashboards.
// SpendEfficiency is revenue earned per unit of marketing spend; zero when
// nothing was spent.
type PeriodReport struct {
	From            time.Time           `json:"from"`
	To              time.Time           `json:"to"`
	Revenue         decimal.Decimal     `json:"revenue"`
	Expense         decimal.Decimal     `json:"expense"`
	NetResult       decimal.Decimal     `json:"netResult"`
	SpendEfficiency decimal.Decimal     `json:"spendEfficiency"`
	RevenueAccounts []AccountSummaryRow `json:"revenueAccounts"`
	ExpenseAccounts []AccountSummaryRow `json:"expenseAccounts"`
}
