package service

import (
	"context"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/refund"

	"github.com/google/uuid"
)

type IRefundService interface {
	CreateRefund(ctx context.Context, req *dto.CreateRefundRequest) (*dto.CreateRefundResponse, error)
	GetOrderRefundState(ctx context.Context, orderId uuid.UUID) (*dto.OrderRefundStateResponse, error)
	ListRecords(ctx context.Context, limit, offset int, unreconciledOnly bool) ([]dto.RefundRecordResponse, error)
}

type refundService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *refund.Engine
	ledger     *refund.Ledger
}

func NewRefundService(uowFactory unitofwork.RepositoryFactory, engine *refund.Engine, ledger *refund.Ledger) IRefundService {
	return &refundService{
		uowFactory: uowFactory,
		engine:     engine,
		ledger:     ledger,
	}
}

func (s *refundService) CreateRefund(ctx context.Context, req *dto.CreateRefundRequest) (*dto.CreateRefundResponse, error) {
	selections := make([]refund.Selection, 0, len(req.Selections))
	for _, sel := range req.Selections {
		selections = append(selections, refund.Selection{
			ItemID:   sel.ItemId,
			Quantity: sel.Quantity,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	outcome, err := s.engine.Refund(ctx, uow, &refund.Request{
		OrderID:             req.OrderId,
		Selections:          selections,
		Reason:              req.Reason,
		RestockingFeeCents:  req.RestockingFeeCents,
		RefundShippingCents: req.RefundShippingCents,
		Notes:               req.Notes,
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateRefundResponse{
		Ok:                true,
		ProcessorRefundId: outcome.ProcessorRefundID,
		AmountCents:       outcome.AmountCents,
		RefundRecordId:    outcome.Record.ID.String(),
	}, nil
}

func (s *refundService) GetOrderRefundState(ctx context.Context, orderId uuid.UUID) (*dto.OrderRefundStateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &refund.OrderNotFoundError{OrderID: orderId}
	}

	entry, err := s.ledger.Load(ctx, uow, order)
	if err != nil {
		return nil, err
	}
	remaining := refund.Remaining(order, entry)

	records, err := uow.RefundRecordRepository().FindAll(ctx,
		specification.ByOrderID{OrderID: orderId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	var refundedTotal int64
	if entry != nil {
		refundedTotal = entry.RefundedTotalCents
	}

	return &dto.OrderRefundStateResponse{
		OrderId:            order.ID,
		OrderTotalCents:    order.TotalCents,
		RefundedTotalCents: refundedTotal,
		RemainingCents:     remaining.TotalRemainingCents,
		PerItemRemaining:   remaining.PerItem,
		Records:            toRecordResponses(records),
	}, nil
}

func (s *refundService) ListRecords(ctx context.Context, limit, offset int, unreconciledOnly bool) ([]dto.RefundRecordResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if unreconciledOnly {
		specs = append([]specification.Specification{specification.Unreconciled{}}, specs...)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.RefundRecordRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toRecordResponses(records), nil
}

func toRecordResponses(records []*entity.RefundRecord) []dto.RefundRecordResponse {
	out := make([]dto.RefundRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.RefundRecordResponse{
			Id:                r.ID,
			OrderId:           r.OrderID,
			ProcessorRefundId: r.ProcessorRefundID,
			AmountCents:       r.AmountCents,
			Reconciled:        r.Reconciled,
			Reason:            r.Reason,
			Notes:             r.Notes,
			CreatedAt:         r.CreatedAt,
		})
	}
	return out
}
