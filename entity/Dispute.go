package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Dispute struct {
	gorm.Model
	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	RaisedByKind ActorKind `gorm:"size:20;not null" json:"raisedByKind"`
	RaisedByID   uint      `json:"raisedById"`

	Type        string `gorm:"size:50" json:"type"` // e.g. missing_item, late_delivery
	Subject     string `gorm:"size:100" json:"subject"`
	Description string `gorm:"size:1000" json:"description"`

	Status   DisputeStatus   `gorm:"size:20;not null;default:open;index:idx_dispute_status_priority" json:"status"`
	Priority DisputePriority `gorm:"size:10;not null;default:medium;index:idx_dispute_status_priority" json:"priority"`

	RefundAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"refundAmount,omitempty"`
	Resolution   string           `gorm:"size:1000" json:"resolution,omitempty"`

	AssignedToID *uint `json:"assignedToId,omitempty"` // admin users.id
	ResolvedByID *uint `json:"resolvedById,omitempty"`

	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}
