package entity

// OrderStatus is the tracking-ledger status enum. The values advance in a
// total order; cancelled/rejected branch off any non-terminal state.
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "placed"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusPickedUp       OrderStatus = "picked_up"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRejected       OrderStatus = "rejected"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPlaced, StatusConfirmed, StatusPreparing, StatusReady,
		StatusPickedUp, StatusOutForDelivery, StatusDelivered,
		StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Terminal statuses accept no further tracking events.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRejected
}

// ActorKind tags who performed a mutation. Resolution of the id to a real
// record is the caller's job; the core never dispatches on it dynamically.
type ActorKind string

const (
	ActorCustomer        ActorKind = "customer"
	ActorRestaurant      ActorKind = "restaurant"
	ActorDeliveryPartner ActorKind = "delivery_partner"
	ActorAdmin           ActorKind = "admin"
)

func (k ActorKind) Valid() bool {
	switch k {
	case ActorCustomer, ActorRestaurant, ActorDeliveryPartner, ActorAdmin:
		return true
	}
	return false
}

type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "pending"
	CommissionProcessed CommissionStatus = "processed"
	CommissionPaid      CommissionStatus = "paid"
)

type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
	PayoutCancelled  PayoutStatus = "cancelled"
)

type DisputeStatus string

const (
	DisputeOpen       DisputeStatus = "open"
	DisputeInProgress DisputeStatus = "in_progress"
	DisputeResolved   DisputeStatus = "resolved"
	DisputeClosed     DisputeStatus = "closed"
)

type DisputePriority string

const (
	PriorityLow    DisputePriority = "low"
	PriorityMedium DisputePriority = "medium"
	PriorityHigh   DisputePriority = "high"
	PriorityUrgent DisputePriority = "urgent"
)

func (p DisputePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
