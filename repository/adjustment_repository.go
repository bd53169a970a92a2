package repository

import (
	"delivergo/entity"

	"gorm.io/gorm"
)

type AdjustmentRepository struct {
	DB *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) *AdjustmentRepository {
	return &AdjustmentRepository{DB: db}
}

func (r *AdjustmentRepository) Create(tx *gorm.DB, a *entity.Adjustment) error {
	return tx.Create(a).Error
}

// ListOpen returns adjustments not yet consumed by any payout.
func (r *AdjustmentRepository) ListOpen(restID uint) ([]entity.Adjustment, error) {
	var out []entity.Adjustment
	err := r.DB.Where("restaurant_id = ? AND payout_id IS NULL", restID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *AdjustmentRepository) Consume(tx *gorm.DB, ids []uint, payoutID uint) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&entity.Adjustment{}).
		Where("id IN ?", ids).
		Update("payout_id", payoutID).Error
}
