package domain

// Well-known chart codes referenced by the posting rules. Every tenant gets
// these on first use; additional accounts are chart administration concerns
// outside the ledger core.
const (
	CodeCash            = "1000"
	CodeSalesTaxPayable = "2100"
	CodeOwnerEquity     = "3000"
	CodeSalesRevenue    = "4000"
	CodeMarketingSpend  = "5100"
)

// DefaultChart returns the account set bootstrapped for every tenant.
// AccountID, TenantID and audit fields are filled in by the caller.
func DefaultChart() []Account {
	return []Account{
		{Code: CodeCash, Name: "Cash", AccountType: Asset, NormalBalance: Debit},
		{Code: CodeSalesTaxPayable, Name: "Sales Tax Payable", AccountType: Liability, NormalBalance: Credit},
		{Code: CodeOwnerEquity, Name: "Owner Equity", AccountType: Equity, NormalBalance: Credit},
		{Code: CodeSalesRevenue, Name: "Sales Revenue", AccountType: Revenue, NormalBalance: Credit},
		{Code: CodeMarketingSpend, Name: "Marketing Expense", AccountType: Expense, NormalBalance: Debit},
	}
}
