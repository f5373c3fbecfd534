package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnknownAccount indicates that a posting instruction references an account
// code that is not registered in the tenant's chart of accounts.
var ErrUnknownAccount = errors.New("unknown account code")

// ErrUnbalancedTransaction indicates that the debit and credit legs of a
// transaction do not sum to the same amount. This always points at a posting
// rule bug and is never retried.
var ErrUnbalancedTransaction = errors.New("transaction debits do not equal credits")

// ErrUnknownEventType indicates that no posting rule exists for the event type.
var ErrUnknownEventType = errors.New("unknown event type")

// ErrMalformedPayload indicates that an event payload could not be interpreted
// by the posting rules engine (missing or invalid required fields).
var ErrMalformedPayload = errors.New("malformed event payload")

// ErrStoreUnavailable indicates a transient infrastructure failure. Operations
// failing with this error are safe to retry because every write path is idempotent.
var ErrStoreUnavailable = errors.New("store unavailable")

// IsInterpretation reports whether err is a payload/rule interpretation failure,
// i.e. the event can never be processed without a code or data fix.
func IsInterpretation(err error) bool {
	return errors.Is(err, ErrUnknownEventType) || errors.Is(err, ErrMalformedPayload)
}

// IsPostingRejection reports whether err is a deterministic posting pre-check
// failure (as opposed to a transient store error).
func IsPostingRejection(err error) bool {
	return errors.Is(err, ErrUnknownAccount) ||
		errors.Is(err, ErrUnbalancedTransaction) ||
		errors.Is(err, ErrValidation)
}
