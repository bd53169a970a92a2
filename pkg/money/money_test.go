package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01", // half rounds up
		"1.004":  "1",
		"2.675":  "2.68",
		"10":     "10",
		"0.3333": "0.33",
	}
	for in, want := range cases {
		got := Round(decimal.RequireFromString(in))
		assert.Equal(t, want, got.String(), "Round(%s)", in)
	}
}

func TestPct(t *testing.T) {
	got := Pct(decimal.RequireFromString("100"), decimal.RequireFromString("20"))
	assert.Equal(t, "20", got.String())

	got = Pct(decimal.RequireFromString("33.33"), decimal.RequireFromString("12.5"))
	assert.Equal(t, "4.17", got.String()) // 4.16625 rounds up
}

func TestIsNegative(t *testing.T) {
	assert.True(t, IsNegative(decimal.RequireFromString("-0.01")))
	assert.False(t, IsNegative(decimal.Zero))
	assert.False(t, IsNegative(decimal.RequireFromString("0.01")))
}
