package unitofwork

import (
	"context"

	"marketplace-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OrderRepository() contract.OrderRepository
	CartRepository() contract.CartRepository
	MergeMarkerRepository() contract.MergeMarkerRepository
	RefundLedgerRepository() contract.RefundLedgerRepository
	RefundRecordRepository() contract.RefundRecordRepository
}
