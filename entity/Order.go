package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	Code string `gorm:"uniqueIndex;size:36" json:"code"` // public order reference

	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2)" json:"deliveryFee"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`

	// Denormalized latest tracking status; updated in the same transaction
	// as the ledger append with an optimistic guard on the previous value.
	Status OrderStatus `gorm:"size:20;not null;index" json:"status"`

	Address          string  `json:"address"`
	DropoffLatitude  float64 `json:"dropoffLatitude"`
	DropoffLongitude float64 `json:"dropoffLongitude"`

	UserID uint `json:"userId"`
	User   User `json:"-"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	// Rider handling the delivery; nil until the first courier claims the
	// order at pickup.
	DeliveryPartnerID *uint `gorm:"index" json:"deliveryPartnerId,omitempty"`

	Items          []OrderItem     `json:"-"`
	TrackingEvents []TrackingEvent `json:"-"`
}
