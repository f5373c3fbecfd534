package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents one account in a tenant's chart of accounts.
// Unique per (tenant, code); created at tenant bootstrap and never mutated
// by the ledger core afterwards.
type Account struct {
	AccountID     string         `json:"accountID"`     // Primary Key (UUID)
	TenantID      string         `json:"tenantID"`      // Owning tenant (Not Null)
	Code          string         `json:"code"`          // Chart code, e.g. "1000"
	Name          string         `json:"name"`          // Display name
	AccountType   AccountType    `json:"accountType"`   // ASSET, LIABILITY, etc.
	NormalBalance EntryDirection `json:"normalBalance"` // Side on which the balance increases
	AuditFields
}

// NormalBalanceFor returns the conventional normal balance side for an
// account type.
func NormalBalanceFor(t AccountType) EntryDirection {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}
