package implementation

import (
	"context"
	"time"

	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type mergeMarkerRepositoryImpl struct {
	db *gorm.DB
}

func NewMergeMarkerRepository(db *gorm.DB) contract.MergeMarkerRepository {
	return &mergeMarkerRepositoryImpl{db: db}
}

func (r *mergeMarkerRepositoryImpl) Exists(ctx context.Context, tenantKey string, userId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CartMergeMarker{}).
		Where("tenant_key = ? AND user_id = ?", tenantKey, userId).
		Count(&count).Error
	return count > 0, err
}

func (r *mergeMarkerRepositoryImpl) Create(ctx context.Context, tenantKey string, userId uuid.UUID) (bool, error) {
	marker := model.CartMergeMarker{
		ID:        uuid.New(),
		TenantKey: tenantKey,
		UserID:    userId,
		MergedAt:  time.Now(),
	}
	// The unique (tenant_key, user_id) index makes this the merge's
	// compare-and-swap: the loser of a duplicate trigger inserts nothing.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_key"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&marker)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
