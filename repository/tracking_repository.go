package repository

import (
	"delivergo/entity"

	"gorm.io/gorm"
)

type TrackingRepository struct {
	DB *gorm.DB
}

func NewTrackingRepository(db *gorm.DB) *TrackingRepository {
	return &TrackingRepository{DB: db}
}

func (r *TrackingRepository) Append(tx *gorm.DB, ev *entity.TrackingEvent) error {
	return tx.Create(ev).Error
}

// Latest returns the event with the maximum timestamp for the order,
// breaking ties by insertion order.
func (r *TrackingRepository) Latest(orderID uint) (*entity.TrackingEvent, error) {
	var ev entity.TrackingEvent
	err := r.DB.Where("order_id = ?", orderID).
		Order("timestamp DESC, id DESC").
		First(&ev).Error
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// History returns the full ledger, timestamp ascending. The query is
// restartable: calling it again re-reads from the store.
func (r *TrackingRepository) History(orderID uint) ([]entity.TrackingEvent, error) {
	var evs []entity.TrackingEvent
	err := r.DB.Where("order_id = ?", orderID).
		Order("timestamp ASC, id ASC").
		Find(&evs).Error
	return evs, err
}

func (r *TrackingRepository) Count(orderID uint) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.TrackingEvent{}).
		Where("order_id = ?", orderID).
		Count(&cnt).Error
	return cnt, err
}
