package contract

import (
	"context"
	"errors"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrStaleLedger is returned by CommitConditional when the compare-and-swap
// on refunded_total_cents lost a concurrent race.
var ErrStaleLedger = errors.New("refund ledger: refunded total changed since read")

type RefundLedgerRepository interface {
	// FindByOrder returns the ledger entry for an order, or nil when no
	// refund has been committed yet.
	FindByOrder(ctx context.Context, orderId uuid.UUID) (*entity.RefundLedgerEntry, error)
	// CommitConditional writes entry only if the stored refunded total still
	// equals expectedTotalCents (the value the caller read). A lazily
	// created first entry and a concurrent update both funnel through the
	// same condition.
	CommitConditional(ctx context.Context, entry *entity.RefundLedgerEntry, expectedTotalCents int64) error
}

type RefundRecordRepository interface {
	Create(ctx context.Context, record *entity.RefundRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRecord, error)
}
