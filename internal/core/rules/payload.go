package rules

import (
	"encoding/json"
	"fmt"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/shopspring/decimal"
)

// OrderCreatedPayload is the payload schema for the OrderCreated event type.
// Subtotal is optional and defaults to Total - Tax; when supplied it must
// agree exactly, otherwise the payload is rejected rather than coerced.
type OrderCreatedPayload struct {
	Total    *decimal.Decimal `json:"total"`
	Tax      *decimal.Decimal `json:"tax"`
	Subtotal *decimal.Decimal `json:"subtotal"`
	OrderRef string           `json:"orderRef"`
}

// AdSpendPayload is the payload schema for the AdSpendRecorded event type.
type AdSpendPayload struct {
	Amount   *decimal.Decimal `json:"amount"`
	Provider string           `json:"provider"`
	Campaign string           `json:"campaign"`
}

// Entry amounts persist as NUMERIC(20, 4). A finer scale would be rounded per
// entry on insert, and independently rounded legs can unbalance a transaction
// that validated in memory.
const maxAmountScale = 4

func checkScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(maxAmountScale)) {
		return fmt.Errorf("%w: '%s' has more than %d decimal places", apperrors.ErrMalformedPayload, field, maxAmountScale)
	}
	return nil
}

func parseOrderCreated(raw json.RawMessage) (total, subtotal, tax decimal.Decimal, err error) {
	var p OrderCreatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return total, subtotal, tax, fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err)
	}
	if p.Total == nil {
		return total, subtotal, tax, fmt.Errorf("%w: missing required field 'total'", apperrors.ErrMalformedPayload)
	}
	total = *p.Total
	if total.IsNegative() {
		return total, subtotal, tax, fmt.Errorf("%w: 'total' must not be negative", apperrors.ErrMalformedPayload)
	}
	if err := checkScale("total", total); err != nil {
		return total, subtotal, tax, err
	}

	if p.Tax != nil {
		tax = *p.Tax
	}
	if tax.IsNegative() {
		return total, subtotal, tax, fmt.Errorf("%w: 'tax' must not be negative", apperrors.ErrMalformedPayload)
	}
	if err := checkScale("tax", tax); err != nil {
		return total, subtotal, tax, err
	}
	if tax.GreaterThan(total) {
		return total, subtotal, tax, fmt.Errorf("%w: 'tax' exceeds 'total'", apperrors.ErrMalformedPayload)
	}

	subtotal = total.Sub(tax)
	if p.Subtotal != nil && !p.Subtotal.Equal(subtotal) {
		return total, subtotal, tax, fmt.Errorf("%w: 'subtotal' %s does not equal total - tax (%s)",
			apperrors.ErrMalformedPayload, p.Subtotal.String(), subtotal.String())
	}
	return total, subtotal, tax, nil
}

func parseAdSpend(raw json.RawMessage) (AdSpendPayload, error) {
	var p AdSpendPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err)
	}
	if p.Amount == nil {
		return p, fmt.Errorf("%w: missing required field 'amount'", apperrors.ErrMalformedPayload)
	}
	if p.Amount.IsNegative() {
		return p, fmt.Errorf("%w: 'amount' must not be negative", apperrors.ErrMalformedPayload)
	}
	if err := checkScale("amount", *p.Amount); err != nil {
		return p, err
	}
	return p, nil
}
