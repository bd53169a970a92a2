package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	// Platform cut of every order, percent 0-100. Delivery rate applies
	// only when the platform's couriers handle the delivery.
	CommissionRate         decimal.Decimal `gorm:"type:decimal(5,2)" json:"commissionRate"`
	DeliveryCommissionRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"deliveryCommissionRate"`

	UserID uint `json:"userId"` // owner (users.id)
	User   User `json:"-"`

	Menus  []Menu  `json:"-"`
	Orders []Order `json:"-"`
}
