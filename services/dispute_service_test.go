package services

import (
	"testing"
	"time"

	"delivergo/entity"
	"delivergo/pkg/apperr"
	"delivergo/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCanTransitionDispute(t *testing.T) {
	allowed := []struct{ from, to entity.DisputeStatus }{
		{entity.DisputeOpen, entity.DisputeInProgress},
		{entity.DisputeInProgress, entity.DisputeResolved},
		{entity.DisputeResolved, entity.DisputeClosed},
		// administrative short-circuit
		{entity.DisputeOpen, entity.DisputeClosed},
		{entity.DisputeInProgress, entity.DisputeClosed},
	}
	for _, tc := range allowed {
		assert.NoError(t, CanTransitionDispute(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	rejected := []struct{ from, to entity.DisputeStatus }{
		// resolved requires passing through in_progress
		{entity.DisputeOpen, entity.DisputeResolved},
		{entity.DisputeInProgress, entity.DisputeOpen},
		{entity.DisputeResolved, entity.DisputeOpen},
		{entity.DisputeResolved, entity.DisputeInProgress},
		{entity.DisputeClosed, entity.DisputeOpen},
		{entity.DisputeClosed, entity.DisputeResolved},
	}
	for _, tc := range rejected {
		assert.ErrorIs(t, CanTransitionDispute(tc.from, tc.to), apperr.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
	}
}

// Settlement fixture: restaurant owned by user 7, one delivered June
// order carrying a 100.00 / 20.00-deduction commission.
type settlementFixture struct {
	db         *gorm.DB
	disputes   *DisputeService
	payouts    *PayoutService
	rest       *entity.Restaurant
	order      *entity.Order
	commission *entity.Commission
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	db := newTestDB(t)

	rest := &entity.Restaurant{Name: "settle-kitchen", UserID: ownerActor.ID}
	require.NoError(t, db.Create(rest).Error)

	order := &entity.Order{Code: "settle-order", Status: entity.StatusDelivered, UserID: custActor.ID, RestaurantID: rest.ID}
	order.CreatedAt = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(order).Error)

	commission := &entity.Commission{
		OrderID:         order.ID,
		RestaurantID:    rest.ID,
		OrderAmount:     dec("100.00"),
		TotalDeductions: dec("20.00"),
		NetAmount:       dec("80.00"),
		Month:           6,
		Year:            2025,
		Status:          entity.CommissionPending,
	}
	require.NoError(t, db.Create(commission).Error)

	disputes := NewDisputeService(db,
		repository.NewDisputeRepository(db),
		repository.NewOrderRepository(db),
		repository.NewRestaurantRepository(db),
		repository.NewAdjustmentRepository(db),
	)
	payouts := NewPayoutService(db,
		repository.NewPayoutRepository(db),
		repository.NewCommissionRepository(db),
		repository.NewAdjustmentRepository(db),
		dec("0"),
	)
	return &settlementFixture{db: db, disputes: disputes, payouts: payouts, rest: rest, order: order, commission: commission}
}

func (f *settlementFixture) openDispute(t *testing.T) *entity.Dispute {
	t.Helper()
	d, err := f.disputes.Open(&OpenDisputeIn{
		OrderID:  f.order.ID,
		RaisedBy: custActor,
		Type:     "missing_item",
		Subject:  "items missing from delivery",
	})
	require.NoError(t, err)
	return d
}

func TestDisputeOpenAuthorization(t *testing.T) {
	t.Run("order customer may open", func(t *testing.T) {
		f := newSettlementFixture(t)
		d := f.openDispute(t)
		assert.Equal(t, entity.DisputeOpen, d.Status)
		assert.Equal(t, entity.PriorityMedium, d.Priority)
	})

	t.Run("restaurant owner may open", func(t *testing.T) {
		f := newSettlementFixture(t)
		_, err := f.disputes.Open(&OpenDisputeIn{
			OrderID:  f.order.ID,
			RaisedBy: ownerActor,
			Type:     "late_pickup",
			Subject:  "courier arrived an hour late",
		})
		assert.NoError(t, err)
	})

	t.Run("stranger customer rejected", func(t *testing.T) {
		f := newSettlementFixture(t)
		_, err := f.disputes.Open(&OpenDisputeIn{
			OrderID:  f.order.ID,
			RaisedBy: ActorRef{Kind: entity.ActorCustomer, ID: 2},
			Type:     "missing_item",
			Subject:  "not my order",
		})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("unassigned rider rejected", func(t *testing.T) {
		f := newSettlementFixture(t)
		_, err := f.disputes.Open(&OpenDisputeIn{
			OrderID:  f.order.ID,
			RaisedBy: riderActor,
			Type:     "address_wrong",
			Subject:  "wrong dropoff pin",
		})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestDisputeResolve(t *testing.T) {
	t.Run("refund becomes a negative adjustment", func(t *testing.T) {
		f := newSettlementFixture(t)
		d := f.openDispute(t)

		resolved, err := f.disputes.Resolve(d.ID, 99, "refund granted", dec("10.00"))
		require.NoError(t, err)
		assert.Equal(t, entity.DisputeResolved, resolved.Status)
		require.NotNil(t, resolved.RefundAmount)
		assert.Equal(t, "10", resolved.RefundAmount.String())
		require.NotNil(t, resolved.ResolvedAt)

		var adj entity.Adjustment
		require.NoError(t, f.db.Where("dispute_id = ?", d.ID).First(&adj).Error)
		assert.Equal(t, f.rest.ID, adj.RestaurantID)
		assert.Equal(t, "-10", adj.Amount.String())
		assert.Nil(t, adj.PayoutID)
	})

	t.Run("zero refund leaves no adjustment", func(t *testing.T) {
		f := newSettlementFixture(t)
		d := f.openDispute(t)

		_, err := f.disputes.Resolve(d.ID, 99, "no refund due", dec("0"))
		require.NoError(t, err)

		var cnt int64
		require.NoError(t, f.db.Model(&entity.Adjustment{}).Where("dispute_id = ?", d.ID).Count(&cnt).Error)
		assert.Zero(t, cnt)
	})

	t.Run("resolved dispute cannot be resolved again", func(t *testing.T) {
		f := newSettlementFixture(t)
		d := f.openDispute(t)

		_, err := f.disputes.Resolve(d.ID, 99, "refund granted", dec("10.00"))
		require.NoError(t, err)

		_, err = f.disputes.Resolve(d.ID, 99, "second attempt", dec("10.00"))
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})
}
