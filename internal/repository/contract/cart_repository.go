package contract

import (
	"context"

	"marketplace-be/internal/entity"

	"github.com/google/uuid"
)

type CartRepository interface {
	// FindByScope returns the cart for a scope key, or nil when none exists.
	FindByScope(ctx context.Context, scopeKey string) (*entity.Cart, error)
	// Save upserts the cart row and replaces its line items wholesale.
	Save(ctx context.Context, cart *entity.Cart) error
	// UpsertItem sets a single line quantity (last-writer-wins).
	UpsertItem(ctx context.Context, scopeKey, tenantKey, productID string, quantity int) error
	// ClearByScope removes every line item; the cart row itself persists.
	ClearByScope(ctx context.Context, scopeKey string) error
}

// MergeMarkerRepository guards the guest→user cart merge. The marker insert
// is unique per (tenant, user) and must run inside the merge transaction.
type MergeMarkerRepository interface {
	Exists(ctx context.Context, tenantKey string, userId uuid.UUID) (bool, error)
	// Create returns false when the marker was already present, which means
	// a concurrent or earlier merge won.
	Create(ctx context.Context, tenantKey string, userId uuid.UUID) (bool, error)
}
