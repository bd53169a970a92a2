package services

import (
	"delivergo/pkg/apperr"
	"delivergo/pkg/money"

	"github.com/shopspring/decimal"
)

// Price snapshots chosen at order time. Once written to an order item
// they never change, even if the menu does.

type VariationSelection struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type AddonSelection struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

// ComputeSubtotal prices one order line:
//
//	(base + Σ variation.price + Σ addon.price*addon.qty) * qty
//
// rounded half-up to 2 decimals at each step. Deterministic; negative
// prices or non-positive quantities are rejected outright.
func ComputeSubtotal(basePrice decimal.Decimal, qty int, variations []VariationSelection, addons []AddonSelection) (decimal.Decimal, error) {
	if money.IsNegative(basePrice) {
		return decimal.Zero, apperr.Validation("base price must not be negative")
	}
	if qty < 1 {
		return decimal.Zero, apperr.Validation("quantity must be at least 1, got %d", qty)
	}

	unit := money.Round(basePrice)
	for _, v := range variations {
		if money.IsNegative(v.Price) {
			return decimal.Zero, apperr.Validation("variation %q has negative price", v.Name)
		}
		unit = unit.Add(money.Round(v.Price))
	}
	for _, a := range addons {
		if money.IsNegative(a.Price) {
			return decimal.Zero, apperr.Validation("addon %q has negative price", a.Name)
		}
		if a.Qty < 1 {
			return decimal.Zero, apperr.Validation("addon %q quantity must be at least 1, got %d", a.Name, a.Qty)
		}
		unit = unit.Add(money.Round(a.Price.Mul(decimal.NewFromInt(int64(a.Qty)))))
	}

	return money.Round(unit.Mul(decimal.NewFromInt(int64(qty)))), nil
}
