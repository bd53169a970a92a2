package entity

import (
	"time"

	"gorm.io/gorm"
)

// TrackingEvent is one entry in an order's append-only status ledger.
// Events are never updated or deleted.
type TrackingEvent struct {
	gorm.Model
	OrderID uint  `gorm:"index:idx_tracking_order_ts" json:"orderId"`
	Order   Order `json:"-"`

	Status    OrderStatus `gorm:"size:20;not null" json:"status"`
	Timestamp time.Time   `gorm:"index:idx_tracking_order_ts;not null" json:"timestamp"`

	ActorKind ActorKind `gorm:"size:20;not null" json:"actorKind"`
	ActorID   uint      `json:"actorId"`

	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	EtaMinutes *int     `json:"etaMinutes,omitempty"`

	Notes string `gorm:"size:200" json:"notes,omitempty"`
}
