package refund

import (
	"fmt"

	"github.com/google/uuid"
)

// Stable error codes surfaced to API clients. One code per error kind,
// never a raw stack trace.
const (
	CodeOrderNotFound     = "ORDER_NOT_FOUND"
	CodeInvalidSelection  = "INVALID_SELECTION"
	CodeFullyRefunded     = "FULLY_REFUNDED"
	CodeExceedsRefundable = "EXCEEDS_REFUNDABLE"
	CodeLedgerOverrun     = "LEDGER_OVERRUN"
	CodePartialCommit     = "PARTIAL_COMMIT"
)

// OrderNotFoundError: the referenced order does not exist.
type OrderNotFoundError struct {
	OrderID uuid.UUID
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderID)
}

func (e *OrderNotFoundError) Code() string { return CodeOrderNotFound }

// InvalidSelectionError: a selection references an item that is not part of
// the order, or asks for more units than remain refundable.
type InvalidSelectionError struct {
	OrderID      uuid.UUID
	ItemID       string
	Requested    int
	RemainingQty int
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid refund selection for order %s: item %s requested %d, refundable %d",
		e.OrderID, e.ItemID, e.Requested, e.RemainingQty)
}

func (e *InvalidSelectionError) Code() string { return CodeInvalidSelection }

// FullyRefundedError: the order has zero remaining refundable balance.
type FullyRefundedError struct {
	OrderID uuid.UUID
}

func (e *FullyRefundedError) Error() string {
	return fmt.Sprintf("order %s is already fully refunded", e.OrderID)
}

func (e *FullyRefundedError) Code() string { return CodeFullyRefunded }

// ExceedsRefundableError: the computed net refund exceeds the remaining
// refundable balance.
type ExceedsRefundableError struct {
	OrderID        uuid.UUID
	RequestedCents int64
	RemainingCents int64
}

func (e *ExceedsRefundableError) Error() string {
	return fmt.Sprintf("refund of %d cents exceeds remaining refundable %d cents on order %s",
		e.RequestedCents, e.RemainingCents, e.OrderID)
}

func (e *ExceedsRefundableError) Code() string { return CodeExceedsRefundable }

// LedgerOverrunError: a concurrent commit won the race, or the commit would
// break a conservation invariant. Callers should re-read the remaining
// balance and retry.
type LedgerOverrunError struct {
	OrderID uuid.UUID
}

func (e *LedgerOverrunError) Error() string {
	return fmt.Sprintf("refund ledger commit lost for order %s: balance changed concurrently", e.OrderID)
}

func (e *LedgerOverrunError) Code() string { return CodeLedgerOverrun }

// PartialCommitError: the processor accepted (or may have accepted) the
// refund but the ledger commit did not land. The money movement is recorded
// as an unreconciled RefundRecord; resolution happens out of band. This is
// the one error kind that must never trigger an automatic processor retry.
type PartialCommitError struct {
	OrderID           uuid.UUID
	ProcessorRefundID string
	AmountCents       int64
	Cause             error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("refund on order %s reached the processor (refund id %q, %d cents) but was not committed: %v",
		e.OrderID, e.ProcessorRefundID, e.AmountCents, e.Cause)
}

func (e *PartialCommitError) Code() string { return CodePartialCommit }

func (e *PartialCommitError) Unwrap() error { return e.Cause }

// Coded is implemented by every refund error kind.
type Coded interface {
	error
	Code() string
}
