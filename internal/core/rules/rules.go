// Package rules maps domain events onto balanced ledger entry instructions.
// It is a pure function of (event type, payload): no I/O, no clock, no state,
// which keeps posting logic exhaustively unit-testable without a database.
package rules

import (
	"encoding/json"
	"fmt"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
)

// Known event types. Adding a type means adding a case to DeriveEntries and
// Describe; the default branch makes the omission a hard failure, never a
// silently skipped event.
const (
	EventOrderCreated    = "OrderCreated"
	EventAdSpendRecorded = "AdSpendRecorded"
)

// DeriveEntries returns the ordered entry instructions for an event. A nil
// error with an empty result means the event is a legitimate no-op (zero
// amounts produce no entries at all, not a zero-balanced transaction).
func DeriveEntries(eventType string, payload json.RawMessage) ([]domain.EntryInstruction, error) {
	switch eventType {
	case EventOrderCreated:
		return deriveOrderCreated(payload)
	case EventAdSpendRecorded:
		return deriveAdSpend(payload)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownEventType, eventType)
	}
}

// Describe returns a human-readable transaction description for an event.
// It tolerates malformed payloads because it is only called after DeriveEntries
// has accepted them.
func Describe(eventType string, payload json.RawMessage) string {
	switch eventType {
	case EventOrderCreated:
		var p OrderCreatedPayload
		if json.Unmarshal(payload, &p) == nil && p.OrderRef != "" {
			return fmt.Sprintf("Order %s", p.OrderRef)
		}
		return "Order revenue"
	case EventAdSpendRecorded:
		var p AdSpendPayload
		if json.Unmarshal(payload, &p) == nil && p.Provider != "" {
			return fmt.Sprintf("Ad spend: %s", p.Provider)
		}
		return "Ad spend"
	default:
		return eventType
	}
}

func deriveOrderCreated(payload json.RawMessage) ([]domain.EntryInstruction, error) {
	total, subtotal, tax, err := parseOrderCreated(payload)
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return nil, nil
	}

	instructions := []domain.EntryInstruction{
		{AccountCode: domain.CodeCash, Direction: domain.Debit, Amount: total},
		{AccountCode: domain.CodeSalesRevenue, Direction: domain.Credit, Amount: subtotal},
	}
	if !tax.IsZero() {
		instructions = append(instructions, domain.EntryInstruction{
			AccountCode: domain.CodeSalesTaxPayable, Direction: domain.Credit, Amount: tax,
		})
	}
	return instructions, nil
}

func deriveAdSpend(payload json.RawMessage) ([]domain.EntryInstruction, error) {
	p, err := parseAdSpend(payload)
	if err != nil {
		return nil, err
	}
	if p.Amount.IsZero() {
		return nil, nil
	}

	return []domain.EntryInstruction{
		{AccountCode: domain.CodeMarketingSpend, Direction: domain.Debit, Amount: *p.Amount},
		{AccountCode: domain.CodeCash, Direction: domain.Credit, Amount: *p.Amount},
	}, nil
}
