package services

import (
	"time"

	"delivergo/entity"
	"delivergo/pkg/apperr"
	"delivergo/pkg/money"
	"delivergo/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// CommissionBreakdown is the platform's settled cut of one order.
// Every field is rounded to 2 decimals, and
// TotalDeductions + NetAmount == OrderAmount holds exactly.
type CommissionBreakdown struct {
	OrderAmount      decimal.Decimal `json:"orderAmount"`
	CommissionRate   decimal.Decimal `json:"commissionRate"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	DeliveryRate     decimal.Decimal `json:"deliveryRate"`
	DeliveryAmount   decimal.Decimal `json:"deliveryAmount"`
	GatewayFee       decimal.Decimal `json:"gatewayFee"`
	TotalDeductions  decimal.Decimal `json:"totalDeductions"`
	NetAmount        decimal.Decimal `json:"netAmount"`
}

func validRate(r decimal.Decimal) bool {
	return r.Sign() >= 0 && r.LessThanOrEqual(hundred)
}

// ComputeCommission derives the deduction breakdown for one order.
// Rates are percentages in [0,100]; amounts must be non-negative.
// Deductions exceeding the order amount signal a misconfigured rate and
// are rejected, never clamped.
func ComputeCommission(orderAmount, ratePct, deliveryRatePct, gatewayFee decimal.Decimal) (*CommissionBreakdown, error) {
	if money.IsNegative(orderAmount) {
		return nil, apperr.Validation("order amount must not be negative")
	}
	if !validRate(ratePct) {
		return nil, apperr.Validation("commission rate must be within [0,100], got %s", ratePct)
	}
	if !validRate(deliveryRatePct) {
		return nil, apperr.Validation("delivery rate must be within [0,100], got %s", deliveryRatePct)
	}
	if money.IsNegative(gatewayFee) {
		return nil, apperr.Validation("gateway fee must not be negative")
	}

	b := &CommissionBreakdown{
		OrderAmount:    money.Round(orderAmount),
		CommissionRate: ratePct,
		DeliveryRate:   deliveryRatePct,
		GatewayFee:     money.Round(gatewayFee),
	}
	b.CommissionAmount = money.Pct(b.OrderAmount, ratePct)
	b.DeliveryAmount = money.Pct(b.OrderAmount, deliveryRatePct)
	b.TotalDeductions = b.CommissionAmount.Add(b.DeliveryAmount).Add(b.GatewayFee)
	b.NetAmount = b.OrderAmount.Sub(b.TotalDeductions)

	if money.IsNegative(b.NetAmount) {
		return nil, apperr.Validation("deductions %s exceed order amount %s", b.TotalDeductions, b.OrderAmount)
	}
	return b, nil
}

type CommissionService struct {
	DB   *gorm.DB
	Repo *repository.CommissionRepository
}

func NewCommissionService(db *gorm.DB, repo *repository.CommissionRepository) *CommissionService {
	return &CommissionService{DB: db, Repo: repo}
}

// RecordForOrder computes and persists the commission row for an order
// inside the caller's transaction, tagged to the order's billing period.
func (s *CommissionService) RecordForOrder(tx *gorm.DB, order *entity.Order, rest *entity.Restaurant, gatewayFee decimal.Decimal, at time.Time) (*entity.Commission, error) {
	b, err := ComputeCommission(order.Total, rest.CommissionRate, rest.DeliveryCommissionRate, gatewayFee)
	if err != nil {
		return nil, err
	}
	c := &entity.Commission{
		OrderID:          order.ID,
		RestaurantID:     rest.ID,
		OrderAmount:      b.OrderAmount,
		CommissionRate:   b.CommissionRate,
		CommissionAmount: b.CommissionAmount,
		DeliveryRate:     b.DeliveryRate,
		DeliveryAmount:   b.DeliveryAmount,
		GatewayFee:       b.GatewayFee,
		TotalDeductions:  b.TotalDeductions,
		NetAmount:        b.NetAmount,
		Month:            int(at.Month()),
		Year:             at.Year(),
		Status:           entity.CommissionPending,
	}
	if err := s.Repo.Create(tx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommissionService) ListByRestaurant(restID uint, month, year int) ([]entity.Commission, error) {
	if month < 0 || month > 12 {
		return nil, apperr.Validation("month must be within 1-12, got %d", month)
	}
	return s.Repo.ListByRestaurant(restID, month, year)
}
