package implementation

import (
	"context"
	"encoding/json"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type refundLedgerRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundLedgerRepository(db *gorm.DB) contract.RefundLedgerRepository {
	return &refundLedgerRepositoryImpl{db: db}
}

func (r *refundLedgerRepositoryImpl) FindByOrder(ctx context.Context, orderId uuid.UUID) (*entity.RefundLedgerEntry, error) {
	var modelLedger model.RefundLedger
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderId).
		First(&modelLedger).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&modelLedger), nil
}

func (r *refundLedgerRepositoryImpl) CommitConditional(ctx context.Context, entry *entity.RefundLedgerEntry, expectedTotalCents int64) error {
	db := r.db.WithContext(ctx)
	qty := toJSONMap(entry.PerItemRefundedQty)

	if expectedTotalCents == 0 {
		row := model.RefundLedger{
			OrderID:            entry.OrderID,
			RefundedTotalCents: entry.RefundedTotalCents,
			PerItemRefundedQty: qty,
			UpdatedAt:          time.Now(),
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// A row already exists; fall through to the conditional update,
		// which still requires its total to be the expected zero.
	}

	res := db.Model(&model.RefundLedger{}).
		Where("order_id = ? AND refunded_total_cents = ?", entry.OrderID, expectedTotalCents).
		Updates(map[string]interface{}{
			"refunded_total_cents":  entry.RefundedTotalCents,
			"per_item_refunded_qty": qty,
			"updated_at":            time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrStaleLedger
	}
	return nil
}

// mapToEntity converts model.RefundLedger to entity.RefundLedgerEntry
func (r *refundLedgerRepositoryImpl) mapToEntity(ml *model.RefundLedger) *entity.RefundLedgerEntry {
	return &entity.RefundLedgerEntry{
		OrderID:            ml.OrderID,
		RefundedTotalCents: ml.RefundedTotalCents,
		PerItemRefundedQty: fromJSONMap(ml.PerItemRefundedQty),
		UpdatedAt:          ml.UpdatedAt,
	}
}

func toJSONMap(qty map[string]int) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range qty {
		out[k] = v
	}
	return out
}

func fromJSONMap(m datatypes.JSONMap) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		switch n := v.(type) {
		case float64:
			out[k] = int(n)
		case int:
			out[k] = n
		case json.Number:
			if i, err := n.Int64(); err == nil {
				out[k] = int(i)
			}
		}
	}
	return out
}
