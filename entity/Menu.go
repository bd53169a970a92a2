package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Menu struct {
	gorm.Model
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Available   bool            `gorm:"default:true" json:"available"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Variations []Variation `json:"variations,omitempty"`
	Addons     []Addon     `json:"addons,omitempty"`
}

// Variation is a mutually-exclusive choice on a menu item (e.g. size).
type Variation struct {
	gorm.Model
	MenuID uint            `json:"menuId"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
}

// Addon is an optional extra, orderable in multiples.
type Addon struct {
	gorm.Model
	MenuID uint            `json:"menuId"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
}
