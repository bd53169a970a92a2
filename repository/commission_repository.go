package repository

import (
	"time"

	"delivergo/entity"

	"gorm.io/gorm"
)

type CommissionRepository struct {
	DB *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{DB: db}
}

func (r *CommissionRepository) Create(tx *gorm.DB, c *entity.Commission) error {
	return tx.Create(c).Error
}

func (r *CommissionRepository) Get(id uint) (*entity.Commission, error) {
	var c entity.Commission
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommissionRepository) GetByOrder(orderID uint) (*entity.Commission, error) {
	var c entity.Commission
	if err := r.DB.Where("order_id = ?", orderID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListForPeriod returns a restaurant's commissions whose orders were
// created inside [start, end], oldest first so repeated aggregation over
// the same window sees the same sequence.
func (r *CommissionRepository) ListForPeriod(restID uint, start, end time.Time) ([]entity.Commission, error) {
	var out []entity.Commission
	err := r.DB.
		Joins("JOIN orders o ON o.id = commissions.order_id").
		Where("commissions.restaurant_id = ? AND o.created_at BETWEEN ? AND ?", restID, start, end).
		Order("commissions.id ASC").
		Find(&out).Error
	return out, err
}

func (r *CommissionRepository) ListByRestaurant(restID uint, month, year int) ([]entity.Commission, error) {
	db := r.DB.Where("restaurant_id = ?", restID)
	if month > 0 {
		db = db.Where("month = ?", month)
	}
	if year > 0 {
		db = db.Where("year = ?", year)
	}
	var out []entity.Commission
	err := db.Order("id ASC").Find(&out).Error
	return out, err
}

// LinkToPayout attaches the commissions to a payout and moves them to
// the given status in one statement.
func (r *CommissionRepository) LinkToPayout(tx *gorm.DB, ids []uint, payoutID uint, status entity.CommissionStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&entity.Commission{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"payout_id": payoutID, "status": status}).Error
}

func (r *CommissionRepository) SetStatusByPayout(tx *gorm.DB, payoutID uint, status entity.CommissionStatus) error {
	return tx.Model(&entity.Commission{}).
		Where("payout_id = ?", payoutID).
		Update("status", status).Error
}
