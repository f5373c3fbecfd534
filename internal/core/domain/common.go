package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // caller identity, e.g. "api" or a worker name
}

// EntryDirection indicates whether a ledger entry is a Debit or a Credit.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// Opposite returns the reversing direction for d.
func (d EntryDirection) Opposite() EntryDirection {
	if d == Debit {
		return Credit
	}
	return Debit
}
