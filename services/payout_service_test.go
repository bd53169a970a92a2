package services

import (
	"testing"
	"time"

	"delivergo/entity"
	"delivergo/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func periodJune() (time.Time, time.Time) {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
}

func juneCommission(id, restID uint, orderAmount, deductions string) entity.Commission {
	return entity.Commission{
		Model:           gorm.Model{ID: id},
		RestaurantID:    restID,
		OrderAmount:     dec(orderAmount),
		TotalDeductions: dec(deductions),
		Month:           6,
		Year:            2025,
	}
}

func TestAggregateCommissions(t *testing.T) {
	start, end := periodJune()

	t.Run("empty list yields zeros", func(t *testing.T) {
		d, err := AggregateCommissions(1, start, end, nil, dec("7"), dec("0"))
		require.NoError(t, err)
		assert.Equal(t, "0", d.TotalOrderAmount.String())
		assert.Equal(t, "0", d.NetAmount.String())
		assert.Equal(t, "0", d.CommissionRate.String())
	})

	t.Run("sums and weighted rate", func(t *testing.T) {
		commissions := []entity.Commission{
			juneCommission(1, 1, "100.00", "20.00"),
			juneCommission(2, 1, "200.00", "30.00"),
		}
		d, err := AggregateCommissions(1, start, end, commissions, dec("0"), dec("0"))
		require.NoError(t, err)
		assert.Equal(t, "300", d.TotalOrderAmount.String())
		assert.Equal(t, "50", d.CommissionAmount.String())
		// 50/300*100 = 16.67 after rounding
		assert.Equal(t, "16.67", d.CommissionRate.String())
		assert.Equal(t, "250", d.NetAmount.String())
	})

	t.Run("tax and adjustments applied", func(t *testing.T) {
		commissions := []entity.Commission{juneCommission(1, 1, "100.00", "20.00")}
		d, err := AggregateCommissions(1, start, end, commissions, dec("10"), dec("-5.00"))
		require.NoError(t, err)
		assert.Equal(t, "10", d.TaxAmount.String())
		// 100 - 20 - 10 - 5 = 65
		assert.Equal(t, "65", d.NetAmount.String())
	})

	t.Run("idempotent over the same input", func(t *testing.T) {
		commissions := []entity.Commission{
			juneCommission(1, 1, "123.45", "24.69"),
			juneCommission(2, 1, "67.89", "13.58"),
		}
		a, err := AggregateCommissions(1, start, end, commissions, dec("7"), dec("-3.21"))
		require.NoError(t, err)
		b, err := AggregateCommissions(1, start, end, commissions, dec("7"), dec("-3.21"))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("foreign restaurant rejected", func(t *testing.T) {
		commissions := []entity.Commission{juneCommission(1, 2, "100.00", "20.00")}
		_, err := AggregateCommissions(1, start, end, commissions, dec("0"), dec("0"))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("commission outside period rejected", func(t *testing.T) {
		c := juneCommission(1, 1, "100.00", "20.00")
		c.Month = 7
		_, err := AggregateCommissions(1, start, end, []entity.Commission{c}, dec("0"), dec("0"))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("already settled commission rejected", func(t *testing.T) {
		c := juneCommission(1, 1, "100.00", "20.00")
		payoutID := uint(9)
		c.PayoutID = &payoutID
		_, err := AggregateCommissions(1, start, end, []entity.Commission{c}, dec("0"), dec("0"))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("negative net rejected", func(t *testing.T) {
		commissions := []entity.Commission{juneCommission(1, 1, "10.00", "2.00")}
		_, err := AggregateCommissions(1, start, end, commissions, dec("0"), dec("-20.00"))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("inverted period rejected", func(t *testing.T) {
		_, err := AggregateCommissions(1, end, start, nil, dec("0"), dec("0"))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestCanTransitionPayout(t *testing.T) {
	allowed := []struct{ from, to entity.PayoutStatus }{
		{entity.PayoutPending, entity.PayoutProcessing},
		{entity.PayoutPending, entity.PayoutCancelled},
		{entity.PayoutProcessing, entity.PayoutCompleted},
		{entity.PayoutProcessing, entity.PayoutFailed},
		{entity.PayoutProcessing, entity.PayoutCancelled},
	}
	for _, tc := range allowed {
		assert.NoError(t, CanTransitionPayout(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	rejected := []struct{ from, to entity.PayoutStatus }{
		{entity.PayoutPending, entity.PayoutCompleted},
		{entity.PayoutPending, entity.PayoutFailed},
		{entity.PayoutProcessing, entity.PayoutPending},
		{entity.PayoutCompleted, entity.PayoutPending},
		{entity.PayoutFailed, entity.PayoutPending},
		{entity.PayoutCancelled, entity.PayoutProcessing},
		{entity.PayoutCompleted, entity.PayoutProcessing},
	}
	for _, tc := range rejected {
		assert.ErrorIs(t, CanTransitionPayout(tc.from, tc.to), apperr.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
	}
}

func TestCreateForPeriod(t *testing.T) {
	start, end := periodJune()

	t.Run("consumes commissions and open adjustments", func(t *testing.T) {
		f := newSettlementFixture(t)
		d := f.openDispute(t)
		_, err := f.disputes.Resolve(d.ID, 99, "refund granted", dec("10.00"))
		require.NoError(t, err)

		p, err := f.payouts.CreateForPeriod(f.rest.ID, start, end)
		require.NoError(t, err)
		assert.Equal(t, entity.PayoutPending, p.Status)
		assert.Equal(t, "100", p.TotalOrderAmount.String())
		assert.Equal(t, "20", p.CommissionAmount.String())
		assert.Equal(t, "-10", p.Adjustments.String())
		// 100 - 20 + (-10)
		assert.Equal(t, "70", p.NetAmount.String())
		assert.NotEmpty(t, p.Reference)

		var comm entity.Commission
		require.NoError(t, f.db.First(&comm, f.commission.ID).Error)
		require.NotNil(t, comm.PayoutID)
		assert.Equal(t, p.ID, *comm.PayoutID)
		assert.Equal(t, entity.CommissionProcessed, comm.Status)

		var adj entity.Adjustment
		require.NoError(t, f.db.Where("dispute_id = ?", d.ID).First(&adj).Error)
		require.NotNil(t, adj.PayoutID)
		assert.Equal(t, p.ID, *adj.PayoutID)
	})

	t.Run("second run over the same period rejected", func(t *testing.T) {
		f := newSettlementFixture(t)
		_, err := f.payouts.CreateForPeriod(f.rest.ID, start, end)
		require.NoError(t, err)

		_, err = f.payouts.CreateForPeriod(f.rest.ID, start, end)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("settled commissions do not roll into the next period", func(t *testing.T) {
		f := newSettlementFixture(t)
		_, err := f.payouts.CreateForPeriod(f.rest.ID, start, end)
		require.NoError(t, err)

		julyStart := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		julyEnd := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
		p, err := f.payouts.CreateForPeriod(f.rest.ID, julyStart, julyEnd)
		require.NoError(t, err)
		assert.Equal(t, "0", p.TotalOrderAmount.String())
		assert.Equal(t, "0", p.NetAmount.String())
	})
}

func TestPayoutTransition(t *testing.T) {
	t.Run("completion marks linked commissions paid", func(t *testing.T) {
		f := newSettlementFixture(t)
		start, end := periodJune()
		p, err := f.payouts.CreateForPeriod(f.rest.ID, start, end)
		require.NoError(t, err)

		_, err = f.payouts.Transition(p.ID, entity.PayoutProcessing)
		require.NoError(t, err)
		done, err := f.payouts.Transition(p.ID, entity.PayoutCompleted)
		require.NoError(t, err)
		assert.Equal(t, entity.PayoutCompleted, done.Status)

		var comm entity.Commission
		require.NoError(t, f.db.First(&comm, f.commission.ID).Error)
		assert.Equal(t, entity.CommissionPaid, comm.Status)
	})

	t.Run("failure leaves commissions processed", func(t *testing.T) {
		f := newSettlementFixture(t)
		start, end := periodJune()
		p, err := f.payouts.CreateForPeriod(f.rest.ID, start, end)
		require.NoError(t, err)

		_, err = f.payouts.Transition(p.ID, entity.PayoutProcessing)
		require.NoError(t, err)
		_, err = f.payouts.Transition(p.ID, entity.PayoutFailed)
		require.NoError(t, err)

		var comm entity.Commission
		require.NoError(t, f.db.First(&comm, f.commission.ID).Error)
		assert.Equal(t, entity.CommissionProcessed, comm.Status)
	})

	t.Run("completed payout accepts nothing further", func(t *testing.T) {
		f := newSettlementFixture(t)
		start, end := periodJune()
		p, err := f.payouts.CreateForPeriod(f.rest.ID, start, end)
		require.NoError(t, err)

		_, err = f.payouts.Transition(p.ID, entity.PayoutProcessing)
		require.NoError(t, err)
		_, err = f.payouts.Transition(p.ID, entity.PayoutCompleted)
		require.NoError(t, err)

		_, err = f.payouts.Transition(p.ID, entity.PayoutProcessing)
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("unknown payout is not found", func(t *testing.T) {
		f := newSettlementFixture(t)
		_, err := f.payouts.Transition(999, entity.PayoutProcessing)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
