package implementation

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/specification"

	"gorm.io/gorm"
)

type refundRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundRecordRepository(db *gorm.DB) contract.RefundRecordRepository {
	return &refundRecordRepositoryImpl{db: db}
}

func (r *refundRecordRepositoryImpl) Create(ctx context.Context, record *entity.RefundRecord) error {
	modelRecord := &model.RefundRecord{
		ID:                record.ID,
		OrderID:           record.OrderID,
		ProcessorRefundID: record.ProcessorRefundID,
		AmountCents:       record.AmountCents,
		Reconciled:        record.Reconciled,
		Reason:            record.Reason,
		Notes:             record.Notes,
	}
	return r.db.WithContext(ctx).Create(modelRecord).Error
}

func (r *refundRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundRecord, error) {
	var modelRecord model.RefundRecord
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelRecord).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelRecord), nil
}

func (r *refundRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRecord, error) {
	var modelRecords []*model.RefundRecord
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelRecords).Error; err != nil {
		return nil, err
	}

	var records []*entity.RefundRecord
	for _, mr := range modelRecords {
		records = append(records, r.mapToEntity(mr))
	}

	return records, nil
}

// mapToEntity converts model.RefundRecord to entity.RefundRecord
func (r *refundRecordRepositoryImpl) mapToEntity(mr *model.RefundRecord) *entity.RefundRecord {
	return &entity.RefundRecord{
		ID:                mr.ID,
		OrderID:           mr.OrderID,
		ProcessorRefundID: mr.ProcessorRefundID,
		AmountCents:       mr.AmountCents,
		Reconciled:        mr.Reconciled,
		Reason:            mr.Reason,
		Notes:             mr.Notes,
		CreatedAt:         mr.CreatedAt,
	}
}
