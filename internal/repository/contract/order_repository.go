package contract

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
)

type OrderRepository interface {
	// Create exists for the checkout collaborator and test seeding; orders
	// are never mutated through this repository afterwards.
	Create(ctx context.Context, order *entity.Order) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
}
