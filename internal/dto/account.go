package dto

import (
	"time"

	"github.com/finlytics/ledger-core/internal/core/domain"
)

// AccountResponse describes one chart of accounts entry.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	NormalBalance string    `json:"normalBalance"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToAccountResponse maps a domain account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		NormalBalance: string(a.NormalBalance),
		CreatedAt:     a.CreatedAt,
	}
}

// ToAccountResponses maps a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
