package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Admin Refund Issuance ---

type RefundSelectionRequest struct {
	ItemId   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type CreateRefundRequest struct {
	OrderId             uuid.UUID                `json:"orderId" validate:"required"`
	Selections          []RefundSelectionRequest `json:"selections" validate:"required,min=1,dive"`
	Reason              string                   `json:"reason" validate:"required"`
	RestockingFeeCents  int64                    `json:"restockingFeeCents" validate:"gte=0"`
	RefundShippingCents int64                    `json:"refundShippingCents" validate:"gte=0"`
	Notes               string                   `json:"notes,omitempty"`
}

type CreateRefundResponse struct {
	Ok                bool   `json:"ok"`
	ProcessorRefundId string `json:"processorRefundId"`
	AmountCents       int64  `json:"amountCents"`
	RefundRecordId    string `json:"refundRecordId"`
}

// --- Refund History / Reconciliation Views ---

type RefundRecordResponse struct {
	Id                uuid.UUID `json:"id"`
	OrderId           uuid.UUID `json:"orderId"`
	ProcessorRefundId string    `json:"processorRefundId,omitempty"`
	AmountCents       int64     `json:"amountCents"`
	Reconciled        bool      `json:"reconciled"`
	Reason            string    `json:"reason"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type OrderRefundStateResponse struct {
	OrderId            uuid.UUID              `json:"orderId"`
	OrderTotalCents    int64                  `json:"orderTotalCents"`
	RefundedTotalCents int64                  `json:"refundedTotalCents"`
	RemainingCents     int64                  `json:"remainingCents"`
	PerItemRemaining   map[string]int         `json:"perItemRemaining"`
	Records            []RefundRecordResponse `json:"records"`
}
