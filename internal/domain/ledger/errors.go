package ledger

import "errors"

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrNoParticipants   = errors.New("at least one participant is required")
	ErrSplitMismatch    = errors.New("split amounts do not sum to the expense total")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrSplitNotFound    = errors.New("split not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNotParticipant   = errors.New("not a participant of this expense")
	ErrSelfPayment      = errors.New("payer and receiver must differ")
	ErrUnexpectedSplits = errors.New("personal expenses carry no splits")

	// ErrInvalidInput wraps the remaining input validation failures so
	// the transport edge can tell them apart from internal errors.
	ErrInvalidInput = errors.New("invalid input")
)
