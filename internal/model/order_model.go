package model

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantKey     string    `gorm:"type:varchar(120);not null;index"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentRef    string    `gorm:"type:varchar(120);not null"`
	TotalCents    int64     `gorm:"not null"`
	ShippingCents int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Relations
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID         string    `gorm:"type:varchar(120);not null"`
	UnitPriceCents int64     `gorm:"not null"`
	Quantity       int       `gorm:"not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
