package repository

import (
	"delivergo/entity"

	"gorm.io/gorm"
)

type DisputeRepository struct {
	DB *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) *DisputeRepository {
	return &DisputeRepository{DB: db}
}

func (r *DisputeRepository) Create(d *entity.Dispute) error {
	return r.DB.Create(d).Error
}

func (r *DisputeRepository) Get(id uint) (*entity.Dispute, error) {
	var d entity.Dispute
	if err := r.DB.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DisputeRepository) List(status entity.DisputeStatus, priority entity.DisputePriority, limit int) ([]entity.Dispute, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := r.DB.Model(&entity.Dispute{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if priority != "" {
		db = db.Where("priority = ?", priority)
	}
	var out []entity.Dispute
	err := db.Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// UpdateStatusGuard flips status only when the stored value matches the
// expected source state, so concurrent admins cannot double-apply.
func (r *DisputeRepository) UpdateStatusGuard(tx *gorm.DB, id uint, from, to entity.DisputeStatus) (int64, error) {
	res := tx.Model(&entity.Dispute{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *DisputeRepository) Save(tx *gorm.DB, d *entity.Dispute) error {
	return tx.Save(d).Error
}

func (r *DisputeRepository) Assign(id uint, adminID uint) error {
	return r.DB.Model(&entity.Dispute{}).
		Where("id = ?", id).
		Update("assigned_to_id", adminID).Error
}
