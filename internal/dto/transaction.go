package dto

import (
	"time"

	"github.com/finlytics/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryResponse is one debit or credit line of a transaction.
type EntryResponse struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Direction string          `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransactionResponse describes a transaction header with its entries.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	TenantID      string          `json:"tenantID"`
	Description   string          `json:"description"`
	SourceEventID *string         `json:"sourceEventID,omitempty"`
	ReversesID    *string         `json:"reversesID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	Entries       []EntryResponse `json:"entries"`
}

// ToTransactionResponse maps a domain transaction to its API representation.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = EntryResponse{
			EntryID:   e.EntryID,
			AccountID: e.AccountID,
			Direction: string(e.Direction),
			Amount:    e.Amount,
		}
	}
	return TransactionResponse{
		TransactionID: t.TransactionID,
		TenantID:      t.TenantID,
		Description:   t.Description,
		SourceEventID: t.SourceEventID,
		ReversesID:    t.ReversesID,
		CreatedAt:     t.CreatedAt,
		Entries:       entries,
	}
}
