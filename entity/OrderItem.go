package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem snapshots price, variations and addons at order time. The
// snapshots never change again, even if the source menu item does.
type OrderItem struct {
	gorm.Model
	Qty       int             `json:"qty"`
	Name      string          `json:"name"` // menu name snapshot
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unitPrice"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`

	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	MenuID uint `json:"menuId"`
	Menu   Menu `json:"-"`

	Variations []OrderItemVariation `json:"variations,omitempty"`
	Addons     []OrderItemAddon     `json:"addons,omitempty"`
}

type OrderItemVariation struct {
	gorm.Model
	OrderItemID uint            `json:"orderItemId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
}

type OrderItemAddon struct {
	gorm.Model
	OrderItemID uint            `json:"orderItemId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Qty         int             `json:"qty"`
}
