package money

import "github.com/shopspring/decimal"

// All monetary values in the settlement pipeline are rounded half-up to
// 2 decimal places at every intermediate step, not only at the end, so
// that sums of parts stay exactly equal to their whole.

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Pct returns amount * rate/100, rounded.
func Pct(amount, ratePct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(ratePct).Div(decimal.NewFromInt(100)))
}

func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func Zero() decimal.Decimal {
	return decimal.Zero
}

// IsNegative reports whether d < 0.
func IsNegative(d decimal.Decimal) bool {
	return d.Sign() < 0
}
