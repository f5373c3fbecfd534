package accounting

import (
	"fmt"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumByDirection totals the debit and credit legs of a set of instructions.
func SumByDirection(instructions []domain.EntryInstruction) (debits, credits decimal.Decimal) {
	for _, in := range instructions {
		if in.Direction == domain.Debit {
			debits = debits.Add(in.Amount)
		} else {
			credits = credits.Add(in.Amount)
		}
	}
	return debits, credits
}

// ValidateBalanced checks the double-entry invariant on a set of entry
// instructions: at least two lines, every amount strictly positive, and the
// debit and credit sums exactly equal. There is no rounding tolerance; amounts
// are exact decimals end to end.
func ValidateBalanced(instructions []domain.EntryInstruction) error {
	if len(instructions) < 2 {
		return fmt.Errorf("%w: a transaction needs at least two entries, got %d",
			apperrors.ErrValidation, len(instructions))
	}

	for _, in := range instructions {
		if in.Direction != domain.Debit && in.Direction != domain.Credit {
			return fmt.Errorf("%w: invalid entry direction %q", apperrors.ErrValidation, in.Direction)
		}
		if !in.Amount.IsPositive() {
			return fmt.Errorf("%w: entry amount must be positive for account %s, got %s",
				apperrors.ErrValidation, in.AccountCode, in.Amount.String())
		}
	}

	debits, credits := SumByDirection(instructions)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s",
			apperrors.ErrUnbalancedTransaction, debits.String(), credits.String())
	}
	return nil
}

// SignedAmount orients an entry amount by account type following the usual
// convention: debits increase ASSET/EXPENSE balances, credits increase
// LIABILITY/EQUITY/REVENUE balances.
func SignedAmount(direction domain.EntryDirection, accountType domain.AccountType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		if direction == domain.Credit {
			return amount.Neg(), nil
		}
		return amount, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		if direction == domain.Debit {
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}
