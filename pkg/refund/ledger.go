package refund

import (
	"context"
	"errors"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/unitofwork"
)

// Ledger tracks how much of an order has already been refunded, overall and
// per line item. It is used exclusively by the Engine; nothing else mutates
// refund bookkeeping.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Load reads the current ledger entry for an order. A nil entry means no
// refund has ever been committed.
func (l *Ledger) Load(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order) (*entity.RefundLedgerEntry, error) {
	return uow.RefundLedgerRepository().FindByOrder(ctx, order.ID)
}

// Remaining derives the refundable headroom from an order and its ledger
// entry snapshot. Pure.
func Remaining(order *entity.Order, entry *entity.RefundLedgerEntry) *entity.RemainingBalance {
	balance := &entity.RemainingBalance{
		TotalRemainingCents: order.TotalCents,
		PerItem:             make(map[string]int, len(order.Items)),
	}
	for _, it := range order.Items {
		balance.PerItem[it.ItemID] = it.Quantity
	}

	if entry == nil {
		return balance
	}

	balance.TotalRemainingCents = order.TotalCents - entry.RefundedTotalCents
	if balance.TotalRemainingCents < 0 {
		balance.TotalRemainingCents = 0
	}
	for itemId, refunded := range entry.PerItemRefundedQty {
		if remaining, ok := balance.PerItem[itemId]; ok {
			remaining -= refunded
			if remaining < 0 {
				remaining = 0
			}
			balance.PerItem[itemId] = remaining
		}
	}
	return balance
}

// Commit applies a refund of amountCents and perItemQty on top of the prev
// snapshot, conditional on prev still being the stored state. The write is
// rejected with LedgerOverrunError when it would break a conservation
// invariant or when a concurrent commit moved the total first.
func (l *Ledger) Commit(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, prev *entity.RefundLedgerEntry, amountCents int64, perItemQty map[string]int) (*entity.RefundLedgerEntry, error) {
	var expectedTotal int64
	merged := make(map[string]int)
	if prev != nil {
		expectedTotal = prev.RefundedTotalCents
		for k, v := range prev.PerItemRefundedQty {
			merged[k] = v
		}
	}

	next := &entity.RefundLedgerEntry{
		OrderID:            order.ID,
		RefundedTotalCents: expectedTotal + amountCents,
		PerItemRefundedQty: merged,
		UpdatedAt:          time.Now(),
	}
	if next.RefundedTotalCents > order.TotalCents {
		return nil, &LedgerOverrunError{OrderID: order.ID}
	}
	for itemId, qty := range perItemQty {
		item := order.ItemByID(itemId)
		if item == nil || merged[itemId]+qty > item.Quantity {
			return nil, &LedgerOverrunError{OrderID: order.ID}
		}
		merged[itemId] += qty
	}

	err := uow.RefundLedgerRepository().CommitConditional(ctx, next, expectedTotal)
	if err != nil {
		if errors.Is(err, contract.ErrStaleLedger) {
			return nil, &LedgerOverrunError{OrderID: order.ID}
		}
		return nil, err
	}
	return next, nil
}
