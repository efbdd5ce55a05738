package model

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ScopeKey  string    `gorm:"type:varchar(255);not null;uniqueIndex"` // Enforces ONE cart per scope
	TenantKey string    `gorm:"type:varchar(120);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_product,unique"`
	ProductID string    `gorm:"type:varchar(120);not null;index:idx_cart_product,unique"`
	Quantity  int       `gorm:"not null"`
	AddedAt   time.Time
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartMergeMarker records that the anonymous cart of (tenant, user) has
// already been folded into the user cart. The unique index is the
// idempotency guard: a second concurrent merge fails the insert and no-ops.
type CartMergeMarker struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantKey string    `gorm:"type:varchar(120);not null;index:idx_tenant_user,unique"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_tenant_user,unique"`
	MergedAt  time.Time
}

func (CartMergeMarker) TableName() string {
	return "cart_merge_markers"
}
