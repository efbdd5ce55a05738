package dto

import "time"

type SetCartItemRequest struct {
	ProductId string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type CartItemResponse struct {
	ProductId string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

type CartResponse struct {
	ScopeKey  string             `json:"scopeKey"`
	TenantKey string             `json:"tenantKey"`
	Items     []CartItemResponse `json:"items"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type MergeCartResponse struct {
	ScopeKey string `json:"scopeKey"`
	Merged   bool   `json:"merged"`
}
