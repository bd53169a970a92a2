package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payout is the net transfer to one restaurant for one settlement period.
// The composite unique index keeps at most one payout per (restaurant,
// period) so concurrent settlement runs cannot double-pay.
type Payout struct {
	gorm.Model
	Reference string `gorm:"uniqueIndex;size:36" json:"reference"`

	RestaurantID uint       `gorm:"uniqueIndex:idx_payout_rest_period" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	PeriodStart time.Time `gorm:"uniqueIndex:idx_payout_rest_period" json:"periodStart"`
	PeriodEnd   time.Time `gorm:"uniqueIndex:idx_payout_rest_period" json:"periodEnd"`

	TotalOrderAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"totalOrderAmount"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(5,2)" json:"commissionRate"` // effective, weighted
	CommissionAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"commissionAmount"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(5,2)" json:"taxRate"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(12,2)" json:"taxAmount"`
	Adjustments      decimal.Decimal `gorm:"type:decimal(12,2)" json:"adjustments"` // signed
	NetAmount        decimal.Decimal `gorm:"type:decimal(12,2)" json:"netAmount"`

	Status PayoutStatus `gorm:"size:20;not null;default:pending" json:"status"`

	Commissions []Commission `json:"-"`
}
