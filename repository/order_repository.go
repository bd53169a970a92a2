package repository

import (
	"strings"
	"time"

	"delivergo/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ClaimDelivery assigns a rider to an unassigned order. The IS NULL
// guard makes the first claim win; losers see zero rows affected.
func (r *OrderRepository) ClaimDelivery(tx *gorm.DB, orderID, riderID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND delivery_partner_id IS NULL", orderID).
		Update("delivery_partner_id", riderID)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) GetOrderForRestaurant(restID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("id = ? AND restaurant_id = ?", orderID, restID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID           uint               `json:"id"`
	Code         string             `json:"code"`
	RestaurantID uint               `json:"restaurantId"`
	Total        decimal.Decimal    `json:"total"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForUser(userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, code, restaurant_id, total, status, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

type RestaurantOrderSummary struct {
	ID           uint               `json:"id"`
	Code         string             `json:"code"`
	UserID       uint               `json:"userId"`
	CustomerName string             `json:"customerName"`
	Total        decimal.Decimal    `json:"total"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForRestaurant(restID uint, status *entity.OrderStatus, page, limit int) ([]RestaurantOrderSummary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	dbCount := r.DB.Table("orders AS o").Where("o.restaurant_id = ? AND o.deleted_at IS NULL", restID)
	if status != nil && *status != "" {
		dbCount = dbCount.Where("o.status = ?", *status)
	}
	if err := dbCount.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []struct {
		ID        uint
		Code      string
		UserID    uint
		Total     decimal.Decimal
		Status    entity.OrderStatus
		CreatedAt time.Time
		FirstName string
		LastName  string
	}
	db := r.DB.Table("orders AS o").
		Select("o.id, o.code, o.user_id, o.total, o.status, o.created_at, u.first_name, u.last_name").
		Joins("JOIN users u ON u.id = o.user_id").
		Where("o.restaurant_id = ? AND o.deleted_at IS NULL", restID)
	if status != nil && *status != "" {
		db = db.Where("o.status = ?", *status)
	}
	if err := db.Order("o.id DESC").Limit(limit).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]RestaurantOrderSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, RestaurantOrderSummary{
			ID:           row.ID,
			Code:         row.Code,
			UserID:       row.UserID,
			CustomerName: strings.TrimSpace(row.FirstName + " " + row.LastName),
			Total:        row.Total,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, total, nil
}

// UpdateStatusGuard flips the denormalized order status only when the
// stored value still matches the expected one; the affected row count
// tells the caller whether it lost a race.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// ---------------- Order items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.
		Preload("Variations").
		Preload("Addons").
		Where("order_id = ?", orderID).
		Find(&items).Error
	return items, err
}

// ---------------- Menu lookups for order creation ----------------

func (r *OrderRepository) GetMenuWithExtras(menuID uint) (*entity.Menu, error) {
	var m entity.Menu
	err := r.DB.
		Preload("Variations").
		Preload("Addons").
		First(&m, menuID).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *OrderRepository) ValidateMenusBelongToRestaurant(menuIDs []uint, restID uint) (bool, error) {
	if len(menuIDs) == 0 {
		return true, nil
	}
	var cnt int64
	if err := r.DB.Model(&entity.Menu{}).
		Where("id IN ? AND restaurant_id = ?", menuIDs, restID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt == int64(len(menuIDs)), nil
}
