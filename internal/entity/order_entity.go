package entity

import (
	"time"

	"github.com/google/uuid"
)

// Order is immutable after checkout except for refund bookkeeping, which is
// owned exclusively by the refund engine.
type Order struct {
	ID            uuid.UUID
	TenantKey     string
	UserID        uuid.UUID
	PaymentRef    string
	TotalCents    int64
	ShippingCents int64
	Items         []OrderItem
	CreatedAt     time.Time
}

type OrderItem struct {
	ItemID         string
	UnitPriceCents int64
	Quantity       int
}

// ItemByID returns the purchased line for itemId, or nil when the item is
// not part of the order.
func (o *Order) ItemByID(itemId string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ItemID == itemId {
			return &o.Items[i]
		}
	}
	return nil
}
