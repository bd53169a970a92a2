package services

import (
	"testing"

	"delivergo/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeSubtotal(t *testing.T) {
	t.Run("base scenario", func(t *testing.T) {
		// (10 + 2 + 1.50*2) * 2 = 30.00
		got, err := ComputeSubtotal(dec("10.00"), 2,
			[]VariationSelection{{Name: "large", Price: dec("2.00")}},
			[]AddonSelection{{Name: "cheese", Price: dec("1.50"), Qty: 2}},
		)
		require.NoError(t, err)
		assert.Equal(t, "30", got.String())
	})

	t.Run("no extras", func(t *testing.T) {
		got, err := ComputeSubtotal(dec("7.25"), 3, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "21.75", got.String())
	})

	t.Run("deterministic", func(t *testing.T) {
		vars := []VariationSelection{{Name: "spicy", Price: dec("0.50")}}
		addons := []AddonSelection{{Name: "rice", Price: dec("1.10"), Qty: 3}}
		a, err := ComputeSubtotal(dec("4.99"), 2, vars, addons)
		require.NoError(t, err)
		b, err := ComputeSubtotal(dec("4.99"), 2, vars, addons)
		require.NoError(t, err)
		assert.True(t, a.Equal(b))
	})

	t.Run("rounds to cents", func(t *testing.T) {
		got, err := ComputeSubtotal(dec("3.335"), 1, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "3.34", got.String())
	})

	t.Run("negative base price rejected", func(t *testing.T) {
		_, err := ComputeSubtotal(dec("-1"), 1, nil, nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := ComputeSubtotal(dec("5"), 0, nil, nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("negative variation price rejected", func(t *testing.T) {
		_, err := ComputeSubtotal(dec("5"), 1,
			[]VariationSelection{{Name: "bad", Price: dec("-0.01")}}, nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("addon quantity below one rejected", func(t *testing.T) {
		_, err := ComputeSubtotal(dec("5"), 1, nil,
			[]AddonSelection{{Name: "bad", Price: dec("1"), Qty: 0}})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
