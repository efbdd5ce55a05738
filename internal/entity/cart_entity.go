package entity

import (
	"time"

	"github.com/google/uuid"
)

// Cart is partitioned solely by its scope key ("<tenantKey>::<userKey>").
// Two carts with the same scope key are the same cart.
type Cart struct {
	ID        uuid.UUID
	ScopeKey  string
	TenantKey string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ProductID string
	Quantity  int
	AddedAt   time.Time
}

// QuantityByProduct flattens the items into a product → quantity map.
func (c *Cart) QuantityByProduct() map[string]int {
	out := make(map[string]int, len(c.Items))
	for _, it := range c.Items {
		out[it.ProductID] += it.Quantity
	}
	return out
}
