package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefundLedgerEntry is the per-order running refund total. Created lazily on
// the first refund, updated via an atomic conditional write on every
// subsequent one. Invariants: RefundedTotalCents <= Order.TotalCents and,
// per item, PerItemRefundedQty[itemId] <= purchased quantity.
type RefundLedgerEntry struct {
	OrderID            uuid.UUID
	RefundedTotalCents int64
	PerItemRefundedQty map[string]int
	UpdatedAt          time.Time
}

// RemainingBalance is the refundable headroom derived from an order and its
// ledger entry.
type RemainingBalance struct {
	TotalRemainingCents int64
	PerItem             map[string]int
}

// RefundRecord is the immutable audit row written once per refund attempt
// that reached the payment processor. Reconciled=false marks rows whose
// processor call succeeded (or may have succeeded) without a matching
// ledger commit; those are the out-of-band reconciliation queue.
type RefundRecord struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	ProcessorRefundID string
	AmountCents       int64
	Reconciled        bool
	Reason            string
	Notes             string
	CreatedAt         time.Time
}
