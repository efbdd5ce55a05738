package payment

import (
	"context"
	"errors"
)

// ErrOutcomeUnknown marks a refund call whose outcome could not be
// determined (timeout, connection drop after send). Callers must treat the
// refund as possibly succeeded and must not retry the call blindly.
var ErrOutcomeUnknown = errors.New("payment: refund outcome unknown")

// RefundResult is the processor's acknowledgement of a refund.
type RefundResult struct {
	ID          string
	Status      string
	AmountCents int64
}

// Processor is the payment-processor client consumed by the refund engine.
// Implementations are constructed explicitly and injected; there is no
// package-level client cache.
type Processor interface {
	CreateRefund(ctx context.Context, paymentRef string, amountCents int64, reason string) (*RefundResult, error)
}
