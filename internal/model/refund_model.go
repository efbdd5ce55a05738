package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RefundLedger keeps one row per refunded order. refunded_total_cents is
// the compare-and-swap column: commits update it conditionally on the
// last-known value so concurrent refunds cannot both settle.
type RefundLedger struct {
	OrderID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	RefundedTotalCents int64             `gorm:"not null;default:0"`
	PerItemRefundedQty datatypes.JSONMap `gorm:"type:jsonb"`
	UpdatedAt          time.Time
}

func (RefundLedger) TableName() string {
	return "refund_ledgers"
}

// RefundRecord rows are immutable after creation. reconciled=false means the
// processor accepted the refund but the ledger commit did not land.
type RefundRecord struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index"`
	ProcessorRefundID string    `gorm:"type:varchar(120);not null"`
	AmountCents       int64     `gorm:"not null"`
	Reconciled        bool      `gorm:"not null;default:true"`
	Reason            string    `gorm:"type:text"`
	Notes             string    `gorm:"type:text"`
	CreatedAt         time.Time
}

func (RefundRecord) TableName() string {
	return "refund_records"
}
