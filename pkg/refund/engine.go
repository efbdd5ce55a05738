package refund

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/events"
	pktNats "marketplace-be/pkg/nats"
	"marketplace-be/pkg/payment"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// TopicRefundUnreconciled carries alerts for refunds the processor accepted
// (or may have accepted) without a matching ledger commit.
const TopicRefundUnreconciled = "refund.unreconciled"

// Selection asks for a quantity of one purchased item to be refunded.
type Selection struct {
	ItemID   string
	Quantity int
}

// Request is the validated input of a single refund attempt.
type Request struct {
	OrderID             uuid.UUID
	Selections          []Selection
	Reason              string
	RestockingFeeCents  int64
	RefundShippingCents int64
	Notes               string
}

// Outcome is returned on a fully committed refund.
type Outcome struct {
	ProcessorRefundID string
	AmountCents       int64
	Record            *entity.RefundRecord
}

// UnreconciledAlert is the payload published on TopicRefundUnreconciled.
type UnreconciledAlert struct {
	OrderID           uuid.UUID `json:"order_id"`
	RecordID          uuid.UUID `json:"record_id"`
	ProcessorRefundID string    `json:"processor_refund_id"`
	AmountCents       int64     `json:"amount_cents"`
	Cause             string    `json:"cause"`
}

// Engine validates a refund request against the ledger, settles it with the
// payment processor, and commits ledger entry plus audit record in one
// transaction. Commits are serialized per order by the ledger's conditional
// write. Authorization is the HTTP boundary's job; the engine assumes the
// caller may refund.
type Engine struct {
	ledger    *Ledger
	processor payment.Processor
	logger    logger.ILogger
	alerts    message.Publisher
	events    *pktNats.Publisher
}

func NewEngine(ledger *Ledger, processor payment.Processor, sysLogger logger.ILogger, alerts message.Publisher, eventPublisher *pktNats.Publisher) *Engine {
	return &Engine{
		ledger:    ledger,
		processor: processor,
		logger:    sysLogger,
		alerts:    alerts,
		events:    eventPublisher,
	}
}

func (e *Engine) Refund(ctx context.Context, uow unitofwork.UnitOfWork, req *Request) (*Outcome, error) {
	// 1. Load the order
	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: req.OrderID})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &OrderNotFoundError{OrderID: req.OrderID}
	}

	// 2. Remaining balance snapshot
	entry, err := e.ledger.Load(ctx, uow, order)
	if err != nil {
		return nil, err
	}
	remaining := Remaining(order, entry)
	if remaining.TotalRemainingCents == 0 {
		return nil, &FullyRefundedError{OrderID: order.ID}
	}

	// 3. Validate selections against per-item headroom
	perItemQty := make(map[string]int, len(req.Selections))
	for _, sel := range req.Selections {
		item := order.ItemByID(sel.ItemID)
		if item == nil || sel.Quantity <= 0 {
			return nil, &InvalidSelectionError{
				OrderID:   order.ID,
				ItemID:    sel.ItemID,
				Requested: sel.Quantity,
			}
		}
		perItemQty[sel.ItemID] += sel.Quantity
		if perItemQty[sel.ItemID] > remaining.PerItem[sel.ItemID] {
			return nil, &InvalidSelectionError{
				OrderID:      order.ID,
				ItemID:       sel.ItemID,
				Requested:    perItemQty[sel.ItemID],
				RemainingQty: remaining.PerItem[sel.ItemID],
			}
		}
	}

	// 4./5. Monetary amount
	var itemsRefundCents int64
	for itemId, qty := range perItemQty {
		item := order.ItemByID(itemId)
		itemsRefundCents += int64(qty) * item.UnitPriceCents
	}
	netRefundCents := itemsRefundCents - req.RestockingFeeCents + req.RefundShippingCents
	if netRefundCents < 0 {
		netRefundCents = 0
	}

	// 6. Conservation check against the snapshot
	if netRefundCents > remaining.TotalRemainingCents {
		return nil, &ExceedsRefundableError{
			OrderID:        order.ID,
			RequestedCents: netRefundCents,
			RemainingCents: remaining.TotalRemainingCents,
		}
	}

	// 7. The single external side effect. From here on a failure may leave
	// moved money behind, so every path must either commit or record an
	// unreconciled refund; the processor call is never repeated.
	res, err := e.processor.CreateRefund(ctx, order.PaymentRef, netRefundCents, req.Reason)
	if err != nil {
		if errors.Is(err, payment.ErrOutcomeUnknown) {
			return nil, e.failUnreconciled(ctx, uow, order, req, "", netRefundCents, err)
		}
		// The processor rejected the call outright; nothing moved.
		return nil, err
	}

	// 8. Ledger commit + audit record in one transaction
	record := &entity.RefundRecord{
		ID:                uuid.New(),
		OrderID:           order.ID,
		ProcessorRefundID: res.ID,
		AmountCents:       netRefundCents,
		Reconciled:        true,
		Reason:            req.Reason,
		Notes:             req.Notes,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, e.failUnreconciled(ctx, uow, order, req, res.ID, netRefundCents, err)
	}
	defer uow.Rollback()

	if _, err := e.ledger.Commit(ctx, uow, order, entry, netRefundCents, perItemQty); err != nil {
		uow.Rollback()
		return nil, e.failUnreconciled(ctx, uow, order, req, res.ID, netRefundCents, err)
	}
	if err := uow.RefundRecordRepository().Create(ctx, record); err != nil {
		uow.Rollback()
		return nil, e.failUnreconciled(ctx, uow, order, req, res.ID, netRefundCents, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, e.failUnreconciled(ctx, uow, order, req, res.ID, netRefundCents, err)
	}

	e.logger.Info("REFUND", "Refund settled", map[string]interface{}{
		"orderId":           order.ID.String(),
		"processorRefundId": res.ID,
		"amountCents":       netRefundCents,
	})

	if e.events != nil {
		evt := events.BaseEvent{
			Type: "REFUND_SETTLED",
			Data: map[string]interface{}{
				"order_id":            order.ID,
				"processor_refund_id": res.ID,
				"amount_cents":        netRefundCents,
				"occurred_at":         time.Now(),
			},
			OccurredAt: time.Now(),
		}
		if err := e.events.Publish(ctx, evt); err != nil {
			e.logger.Warn("REFUND", "Failed to publish REFUND_SETTLED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &Outcome{
		ProcessorRefundID: res.ID,
		AmountCents:       netRefundCents,
		Record:            record,
	}, nil
}

// failUnreconciled persists the unreconciled audit row outside any
// transaction, raises an alert for out-of-band reconciliation, and returns
// the PartialCommitError the caller must surface.
func (e *Engine) failUnreconciled(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, req *Request, processorRefundId string, amountCents int64, cause error) error {
	record := &entity.RefundRecord{
		ID:                uuid.New(),
		OrderID:           order.ID,
		ProcessorRefundID: processorRefundId,
		AmountCents:       amountCents,
		Reconciled:        false,
		Reason:            req.Reason,
		Notes:             req.Notes,
	}
	if err := uow.RefundRecordRepository().Create(ctx, record); err != nil {
		// The audit row itself failed; the log line is now the only trace.
		e.logger.Error("REFUND", "Failed to persist unreconciled refund record", map[string]interface{}{
			"orderId":           order.ID.String(),
			"processorRefundId": processorRefundId,
			"amountCents":       amountCents,
			"error":             err.Error(),
		})
	}

	e.logger.Error("REFUND", "Refund reached processor without ledger commit", map[string]interface{}{
		"orderId":           order.ID.String(),
		"processorRefundId": processorRefundId,
		"amountCents":       amountCents,
		"recordId":          record.ID.String(),
		"cause":             cause.Error(),
	})

	if e.alerts != nil {
		payload, err := json.Marshal(UnreconciledAlert{
			OrderID:           order.ID,
			RecordID:          record.ID,
			ProcessorRefundID: processorRefundId,
			AmountCents:       amountCents,
			Cause:             cause.Error(),
		})
		if err == nil {
			msg := message.NewMessage(watermill.NewUUID(), payload)
			if err := e.alerts.Publish(TopicRefundUnreconciled, msg); err != nil {
				e.logger.Warn("REFUND", "Failed to publish unreconciled alert", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return &PartialCommitError{
		OrderID:           order.ID,
		ProcessorRefundID: processorRefundId,
		AmountCents:       amountCents,
		Cause:             cause,
	}
}
