package implementation

import (
	"context"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepositoryImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) contract.CartRepository {
	return &cartRepositoryImpl{db: db}
}

func (r *cartRepositoryImpl) FindByScope(ctx context.Context, scopeKey string) (*entity.Cart, error) {
	var modelCart model.Cart
	err := r.db.WithContext(ctx).Preload("Items").
		Where("scope_key = ?", scopeKey).
		First(&modelCart).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&modelCart), nil
}

func (r *cartRepositoryImpl) Save(ctx context.Context, cart *entity.Cart) error {
	db := r.db.WithContext(ctx)

	row, err := r.findOrCreateRow(db, cart.ScopeKey, cart.TenantKey)
	if err != nil {
		return err
	}

	// Replace line items wholesale; callers run this inside the unit of
	// work's transaction so a failed write leaves nothing half-applied.
	if err := db.Where("cart_id = ?", row.ID).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	for _, it := range cart.Items {
		item := model.CartItem{
			CartID:    row.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			AddedAt:   it.AddedAt,
		}
		if item.AddedAt.IsZero() {
			item.AddedAt = time.Now()
		}
		if err := db.Create(&item).Error; err != nil {
			return err
		}
	}
	return db.Model(&model.Cart{}).Where("id = ?", row.ID).
		Update("updated_at", time.Now()).Error
}

func (r *cartRepositoryImpl) UpsertItem(ctx context.Context, scopeKey, tenantKey, productID string, quantity int) error {
	db := r.db.WithContext(ctx)

	row, err := r.findOrCreateRow(db, scopeKey, tenantKey)
	if err != nil {
		return err
	}

	item := model.CartItem{
		CartID:    row.ID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	// Last-writer-wins on ordinary quantity updates.
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": quantity}),
	}).Create(&item).Error
}

func (r *cartRepositoryImpl) ClearByScope(ctx context.Context, scopeKey string) error {
	db := r.db.WithContext(ctx)

	var row model.Cart
	err := db.Where("scope_key = ?", scopeKey).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	return db.Where("cart_id = ?", row.ID).Delete(&model.CartItem{}).Error
}

func (r *cartRepositoryImpl) findOrCreateRow(db *gorm.DB, scopeKey, tenantKey string) (*model.Cart, error) {
	var row model.Cart
	err := db.Where("scope_key = ?", scopeKey).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	row = model.Cart{
		ID:        uuid.New(),
		ScopeKey:  scopeKey,
		TenantKey: tenantKey,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope_key"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return nil, err
	}
	// Re-read in case a concurrent insert won the conflict.
	if err := db.Where("scope_key = ?", scopeKey).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// mapToEntity converts model.Cart to entity.Cart
func (r *cartRepositoryImpl) mapToEntity(mc *model.Cart) *entity.Cart {
	cart := &entity.Cart{
		ID:        mc.ID,
		ScopeKey:  mc.ScopeKey,
		TenantKey: mc.TenantKey,
		CreatedAt: mc.CreatedAt,
		UpdatedAt: mc.UpdatedAt,
	}
	for _, it := range mc.Items {
		cart.Items = append(cart.Items, entity.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			AddedAt:   it.AddedAt,
		})
	}
	return cart
}
