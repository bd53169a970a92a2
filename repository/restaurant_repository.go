package repository

import (
	"delivergo/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) Create(rest *entity.Restaurant) error {
	return r.DB.Create(rest).Error
}

func (r *RestaurantRepository) Get(id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.First(&rest, id).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) List(limit int) ([]entity.Restaurant, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []entity.Restaurant
	err := r.DB.Order("id").Limit(limit).Find(&out).Error
	return out, err
}

func (r *RestaurantRepository) Exists(id uint) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&entity.Restaurant{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *RestaurantRepository) IsOwnedBy(restID, userID uint) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.Restaurant{}).
		Where("id = ? AND user_id = ?", restID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *RestaurantRepository) UpdateCommissionRates(restID uint, rate, deliveryRate decimal.Decimal) error {
	return r.DB.Model(&entity.Restaurant{}).
		Where("id = ?", restID).
		Updates(map[string]any{
			"commission_rate":          rate,
			"delivery_commission_rate": deliveryRate,
		}).Error
}
