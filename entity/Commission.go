package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Commission is the platform's settled cut of one order. One row per
// (order, restaurant) pair, tagged to a month/year settlement period.
type Commission struct {
	gorm.Model
	OrderID uint  `gorm:"uniqueIndex:idx_commission_order_rest" json:"orderId"`
	Order   Order `json:"-"`

	RestaurantID uint       `gorm:"uniqueIndex:idx_commission_order_rest;index:idx_commission_rest_period" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	OrderAmount      decimal.Decimal `gorm:"type:decimal(10,2)" json:"orderAmount"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(5,2)" json:"commissionRate"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"commissionAmount"`
	DeliveryRate     decimal.Decimal `gorm:"type:decimal(5,2)" json:"deliveryRate"`
	DeliveryAmount   decimal.Decimal `gorm:"type:decimal(10,2)" json:"deliveryAmount"`
	GatewayFee       decimal.Decimal `gorm:"type:decimal(10,2)" json:"gatewayFee"`
	TotalDeductions  decimal.Decimal `gorm:"type:decimal(10,2)" json:"totalDeductions"`
	NetAmount        decimal.Decimal `gorm:"type:decimal(10,2)" json:"netAmount"`

	Month int `gorm:"index:idx_commission_rest_period" json:"month"` // 1-12
	Year  int `gorm:"index:idx_commission_rest_period" json:"year"`

	Status CommissionStatus `gorm:"size:20;not null;default:pending" json:"status"`

	PayoutID *uint   `json:"payoutId,omitempty"`
	Payout   *Payout `json:"-"`
}
