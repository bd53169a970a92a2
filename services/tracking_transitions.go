package services

import (
	"delivergo/entity"
	"delivergo/pkg/apperr"
)

// Forward order of the happy path. Cancellation and rejection branch off
// any non-terminal state; delivered/cancelled/rejected accept nothing
// further.
var statusRank = map[entity.OrderStatus]int{
	entity.StatusPlaced:         0,
	entity.StatusConfirmed:      1,
	entity.StatusPreparing:      2,
	entity.StatusReady:          3,
	entity.StatusPickedUp:       4,
	entity.StatusOutForDelivery: 5,
	entity.StatusDelivered:      6,
}

// CanTransition decides whether a tracking append from -> to is legal.
// Duplicates and backward moves are rejected, not silently ignored, so a
// racing or replayed writer surfaces as a conflict instead of corrupting
// the ledger.
func CanTransition(from, to entity.OrderStatus) error {
	if !to.Valid() {
		return apperr.Validation("unknown status %q", to)
	}
	if from.Terminal() {
		return apperr.InvalidTransition("order is already %s", from)
	}
	if to == entity.StatusCancelled || to == entity.StatusRejected {
		return nil
	}
	if statusRank[to] <= statusRank[from] {
		return apperr.InvalidTransition("cannot move from %s to %s", from, to)
	}
	return nil
}
