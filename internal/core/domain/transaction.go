package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a balanced accounting transaction header. It is created
// atomically with its entries and never updated afterwards; corrections are
// new reversing transactions.
type Transaction struct {
	TransactionID string     `json:"transactionID"`           // Primary Key (UUID)
	TenantID      string     `json:"tenantID"`                // Owning tenant (Not Null)
	Description   string     `json:"description"`             //
	SourceEventID *string    `json:"sourceEventID,omitempty"` // Back-reference to the originating event, unique when set
	ReversesID    *string    `json:"reversesID,omitempty"`    // Set on reversing transactions
	CreatedAt     time.Time  `json:"createdAt"`               //
	Entries       []Entry    `json:"entries,omitempty"`       // Loaded on demand
}

// Entry is a single debit or credit line belonging to exactly one transaction
// and one account. Amounts are non-negative; the direction carries the sign.
type Entry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	TransactionID string          `json:"transactionID"` // FK -> transactions (Not Null)
	AccountID     string          `json:"accountID"`     // FK -> accounts (Not Null)
	Direction     EntryDirection  `json:"direction"`     // DEBIT or CREDIT
	Amount        decimal.Decimal `json:"amount"`        // Non-negative exact decimal
}

// EntryInstruction is one line produced by the posting rules engine: an
// account chart code (not yet resolved to an account id), a direction and an
// exact amount.
type EntryInstruction struct {
	AccountCode string          `json:"accountCode"`
	Direction   EntryDirection  `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
}
