package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// MidtransProcessor issues partial refunds through the midtrans Core API.
type MidtransProcessor struct {
	client coreapi.Client
}

func NewMidtransProcessor(serverKey string, production bool) *MidtransProcessor {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var client coreapi.Client
	client.New(serverKey, env)

	return &MidtransProcessor{client: client}
}

func (p *MidtransProcessor) CreateRefund(ctx context.Context, paymentRef string, amountCents int64, reason string) (*RefundResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The refund key doubles as midtrans' idempotency handle for this
	// attempt; a fresh one is minted per engine invocation.
	refundKey := uuid.New().String()

	req := &coreapi.RefundReq{
		RefundKey: refundKey,
		Amount:    amountCents,
		Reason:    reason,
	}

	res, midErr := p.client.RefundTransaction(paymentRef, req)
	if midErr != nil {
		// A transport-level failure means the request may have reached
		// midtrans; the outcome is unknown and must not be retried.
		if midErr.StatusCode == 0 {
			return nil, fmt.Errorf("%w: %v", ErrOutcomeUnknown, midErr)
		}
		return nil, fmt.Errorf("midtrans refund rejected: %s", midErr.GetMessage())
	}

	id := res.RefundKey
	if id == "" {
		id = res.TransactionID
	}

	return &RefundResult{
		ID:          id,
		Status:      res.TransactionStatus,
		AmountCents: amountCents,
	}, nil
}
