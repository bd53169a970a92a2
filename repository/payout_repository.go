package repository

import (
	"time"

	"delivergo/entity"

	"gorm.io/gorm"
)

type PayoutRepository struct {
	DB *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{DB: db}
}

func (r *PayoutRepository) Create(tx *gorm.DB, p *entity.Payout) error {
	return tx.Create(p).Error
}

func (r *PayoutRepository) Get(id uint) (*entity.Payout, error) {
	var p entity.Payout
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PayoutRepository) ListByRestaurant(restID uint, limit int) ([]entity.Payout, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []entity.Payout
	err := r.DB.Where("restaurant_id = ?", restID).
		Order("id DESC").Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *PayoutRepository) ExistsForPeriod(restID uint, start, end time.Time) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.Payout{}).
		Where("restaurant_id = ? AND period_start = ? AND period_end = ?", restID, start, end).
		Count(&cnt).Error
	return cnt > 0, err
}

// UpdateStatusGuard is the optimistic transition write: it only flips the
// status when the stored value still matches the expected source state.
func (r *PayoutRepository) UpdateStatusGuard(tx *gorm.DB, payoutID uint, from, to entity.PayoutStatus) (int64, error) {
	res := tx.Model(&entity.Payout{}).
		Where("id = ? AND status = ?", payoutID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
