package implementation

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/specification"

	"gorm.io/gorm"
)

type orderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &orderRepositoryImpl{db: db}
}

func (r *orderRepositoryImpl) Create(ctx context.Context, order *entity.Order) error {
	modelOrder := &model.Order{
		ID:            order.ID,
		TenantKey:     order.TenantKey,
		UserID:        order.UserID,
		PaymentRef:    order.PaymentRef,
		TotalCents:    order.TotalCents,
		ShippingCents: order.ShippingCents,
	}
	for _, it := range order.Items {
		modelOrder.Items = append(modelOrder.Items, model.OrderItem{
			OrderID:        order.ID,
			ItemID:         it.ItemID,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	return r.db.WithContext(ctx).Create(modelOrder).Error
}

func (r *orderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	var modelOrder model.Order
	query := r.db.WithContext(ctx).Preload("Items")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelOrder).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelOrder), nil
}

// mapToEntity converts model.Order to entity.Order
func (r *orderRepositoryImpl) mapToEntity(mo *model.Order) *entity.Order {
	order := &entity.Order{
		ID:            mo.ID,
		TenantKey:     mo.TenantKey,
		UserID:        mo.UserID,
		PaymentRef:    mo.PaymentRef,
		TotalCents:    mo.TotalCents,
		ShippingCents: mo.ShippingCents,
		CreatedAt:     mo.CreatedAt,
	}
	for _, it := range mo.Items {
		order.Items = append(order.Items, entity.OrderItem{
			ItemID:         it.ItemID,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	return order
}
