package refund_test

import (
	"context"
	"testing"

	"marketplace-be/internal/entity"
	"marketplace-be/pkg/refund"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemaining_NoLedgerEntry(t *testing.T) {
	order := testOrder()

	balance := refund.Remaining(order, nil)

	assert.Equal(t, int64(10000), balance.TotalRemainingCents)
	assert.Equal(t, 2, balance.PerItem["itemA"])
	assert.Equal(t, 1, balance.PerItem["itemB"])
}

func TestRemaining_PartiallyRefunded(t *testing.T) {
	order := testOrder()
	entry := &entity.RefundLedgerEntry{
		OrderID:            order.ID,
		RefundedTotalCents: 3000,
		PerItemRefundedQty: map[string]int{"itemA": 1},
	}

	balance := refund.Remaining(order, entry)

	assert.Equal(t, int64(7000), balance.TotalRemainingCents)
	assert.Equal(t, 1, balance.PerItem["itemA"])
	assert.Equal(t, 1, balance.PerItem["itemB"])
}

func TestRemaining_ClampsAtZero(t *testing.T) {
	order := testOrder()
	entry := &entity.RefundLedgerEntry{
		OrderID:            order.ID,
		RefundedTotalCents: 12000, // corrupt row beyond the order total
		PerItemRefundedQty: map[string]int{"itemA": 5},
	}

	balance := refund.Remaining(order, entry)

	assert.Equal(t, int64(0), balance.TotalRemainingCents)
	assert.Equal(t, 0, balance.PerItem["itemA"])
}

func TestCommit_FirstCommitCreatesEntry(t *testing.T) {
	order := testOrder()
	uow := newFakeUnitOfWork(order)
	ledger := refund.NewLedger()

	next, err := ledger.Commit(context.Background(), uow, order, nil, 3000, map[string]int{"itemA": 1})

	require.NoError(t, err)
	assert.Equal(t, int64(3000), next.RefundedTotalCents)
	assert.Equal(t, int64(3000), uow.ledgers[order.ID].RefundedTotalCents)
	assert.Equal(t, 1, uow.ledgers[order.ID].PerItemRefundedQty["itemA"])
}

func TestCommit_RejectsTotalOverrun(t *testing.T) {
	order := testOrder()
	uow := newFakeUnitOfWork(order)
	prev := &entity.RefundLedgerEntry{
		OrderID:            order.ID,
		RefundedTotalCents: 8000,
		PerItemRefundedQty: map[string]int{"itemA": 2},
	}
	uow.ledgers[order.ID] = prev
	ledger := refund.NewLedger()

	_, err := ledger.Commit(context.Background(), uow, order, prev, 4000, map[string]int{"itemB": 1})

	var overrun *refund.LedgerOverrunError
	require.ErrorAs(t, err, &overrun)
	assert.Equal(t, int64(8000), uow.ledgers[order.ID].RefundedTotalCents)
}

func TestCommit_RejectsPerItemOverrun(t *testing.T) {
	order := testOrder()
	uow := newFakeUnitOfWork(order)
	prev := &entity.RefundLedgerEntry{
		OrderID:            order.ID,
		RefundedTotalCents: 3000,
		PerItemRefundedQty: map[string]int{"itemA": 1},
	}
	uow.ledgers[order.ID] = prev
	ledger := refund.NewLedger()

	// itemA has one unit of headroom left; two is an overrun even though the
	// money amount would still fit.
	_, err := ledger.Commit(context.Background(), uow, order, prev, 6000, map[string]int{"itemA": 2})

	var overrun *refund.LedgerOverrunError
	require.ErrorAs(t, err, &overrun)
}

func TestCommit_StaleSnapshotLosesRace(t *testing.T) {
	order := testOrder()
	uow := newFakeUnitOfWork(order)
	// The stored row moved after the caller took its snapshot.
	uow.ledgers[order.ID] = &entity.RefundLedgerEntry{
		OrderID:            order.ID,
		RefundedTotalCents: 3000,
		PerItemRefundedQty: map[string]int{"itemA": 1},
	}
	ledger := refund.NewLedger()

	_, err := ledger.Commit(context.Background(), uow, order, nil, 4000, map[string]int{"itemB": 1})

	var overrun *refund.LedgerOverrunError
	require.ErrorAs(t, err, &overrun)
	assert.Equal(t, int64(3000), uow.ledgers[order.ID].RefundedTotalCents)
}
