package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Adjustment is a signed correction (dispute refund, goodwill credit)
// applied to a restaurant's next settlement. Rows stay open until a
// payout consumes them.
type Adjustment struct {
	gorm.Model
	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"` // signed; refunds are negative
	Reason string          `gorm:"size:200" json:"reason"`

	DisputeID *uint    `json:"disputeId,omitempty"`
	Dispute   *Dispute `json:"-"`

	PayoutID *uint   `json:"payoutId,omitempty"` // set once consumed
	Payout   *Payout `json:"-"`
}
