package services

import (
	"errors"
	"time"

	"delivergo/entity"
	"delivergo/pkg/apperr"
	"delivergo/pkg/money"
	"delivergo/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutDraft is the pure aggregation result, before persistence. The
// arithmetic reads no clock and no randomness: the same commission set
// always yields the same draft.
type PayoutDraft struct {
	RestaurantID     uint            `json:"restaurantId"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	TotalOrderAmount decimal.Decimal `json:"totalOrderAmount"`
	CommissionRate   decimal.Decimal `json:"commissionRate"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	TaxRate          decimal.Decimal `json:"taxRate"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	Adjustments      decimal.Decimal `json:"adjustments"`
	NetAmount        decimal.Decimal `json:"netAmount"`
	CommissionIDs    []uint          `json:"commissionIds"`
}

// AggregateCommissions batches a restaurant's commissions for one
// settlement period into a single draft. The commission aggregate sums
// each row's total deductions (platform cut, delivery cut, gateway fee)
// and its rate is the deduction-weighted effective percentage.
func AggregateCommissions(restID uint, periodStart, periodEnd time.Time, commissions []entity.Commission, taxRatePct, adjustments decimal.Decimal) (*PayoutDraft, error) {
	if !periodEnd.After(periodStart) {
		return nil, apperr.Validation("period end must be after period start")
	}
	if !validRate(taxRatePct) {
		return nil, apperr.Validation("tax rate must be within [0,100], got %s", taxRatePct)
	}

	d := &PayoutDraft{
		RestaurantID:     restID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		TotalOrderAmount: decimal.Zero,
		CommissionRate:   decimal.Zero,
		CommissionAmount: decimal.Zero,
		TaxRate:          taxRatePct,
		TaxAmount:        decimal.Zero,
		Adjustments:      money.Round(adjustments),
		NetAmount:        decimal.Zero,
		CommissionIDs:    make([]uint, 0, len(commissions)),
	}

	for _, c := range commissions {
		if c.RestaurantID != restID {
			return nil, apperr.Validation("commission %d belongs to restaurant %d, not %d", c.ID, c.RestaurantID, restID)
		}
		tag := time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC)
		if tag.Before(time.Date(periodStart.Year(), periodStart.Month(), 1, 0, 0, 0, 0, time.UTC)) ||
			tag.After(time.Date(periodEnd.Year(), periodEnd.Month(), 1, 0, 0, 0, 0, time.UTC)) {
			return nil, apperr.Validation("commission %d is tagged %d-%02d, outside the settlement period", c.ID, c.Year, c.Month)
		}
		if c.PayoutID != nil {
			return nil, apperr.Validation("commission %d is already linked to payout %d", c.ID, *c.PayoutID)
		}
		d.TotalOrderAmount = d.TotalOrderAmount.Add(money.Round(c.OrderAmount))
		d.CommissionAmount = d.CommissionAmount.Add(money.Round(c.TotalDeductions))
		d.CommissionIDs = append(d.CommissionIDs, c.ID)
	}

	if d.TotalOrderAmount.Sign() > 0 {
		d.CommissionRate = money.Round(d.CommissionAmount.Div(d.TotalOrderAmount).Mul(hundred))
	}
	d.TaxAmount = money.Pct(d.TotalOrderAmount, taxRatePct)
	d.NetAmount = d.TotalOrderAmount.
		Sub(d.CommissionAmount).
		Sub(d.TaxAmount).
		Add(d.Adjustments)

	if money.IsNegative(d.NetAmount) {
		return nil, apperr.Validation("payout net amount %s is negative", d.NetAmount)
	}
	return d, nil
}

// Payout lifecycle: pending -> processing -> completed, with failed
// reachable from processing and cancelled from pending/processing.
// Nothing re-enters pending.
var payoutTransitions = map[entity.PayoutStatus][]entity.PayoutStatus{
	entity.PayoutPending:    {entity.PayoutProcessing, entity.PayoutCancelled},
	entity.PayoutProcessing: {entity.PayoutCompleted, entity.PayoutFailed, entity.PayoutCancelled},
}

func CanTransitionPayout(from, to entity.PayoutStatus) error {
	for _, allowed := range payoutTransitions[from] {
		if to == allowed {
			return nil
		}
	}
	return apperr.InvalidTransition("payout cannot move from %s to %s", from, to)
}

type PayoutService struct {
	DB             *gorm.DB
	Repo           *repository.PayoutRepository
	CommissionRepo *repository.CommissionRepository
	AdjustmentRepo *repository.AdjustmentRepository
	TaxRatePct     decimal.Decimal
}

func NewPayoutService(db *gorm.DB, repo *repository.PayoutRepository, commRepo *repository.CommissionRepository, adjRepo *repository.AdjustmentRepository, taxRatePct decimal.Decimal) *PayoutService {
	return &PayoutService{
		DB:             db,
		Repo:           repo,
		CommissionRepo: commRepo,
		AdjustmentRepo: adjRepo,
		TaxRatePct:     taxRatePct,
	}
}

// CreateForPeriod settles one (restaurant, period): it aggregates the
// period's commissions plus any open adjustments, persists the payout,
// and marks the constituents consumed — all in one transaction. The
// unique (restaurant, period) index backstops concurrent runs.
func (s *PayoutService) CreateForPeriod(restID uint, periodStart, periodEnd time.Time) (*entity.Payout, error) {
	exists, err := s.Repo.ExistsForPeriod(restID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("a payout already exists for restaurant %d in this period", restID)
	}

	commissions, err := s.CommissionRepo.ListForPeriod(restID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	openAdjs, err := s.AdjustmentRepo.ListOpen(restID)
	if err != nil {
		return nil, err
	}
	adjTotal := decimal.Zero
	adjIDs := make([]uint, 0, len(openAdjs))
	for _, a := range openAdjs {
		adjTotal = adjTotal.Add(money.Round(a.Amount))
		adjIDs = append(adjIDs, a.ID)
	}

	draft, err := AggregateCommissions(restID, periodStart, periodEnd, commissions, s.TaxRatePct, adjTotal)
	if err != nil {
		return nil, err
	}

	payout := &entity.Payout{
		Reference:        uuid.NewString(),
		RestaurantID:     restID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		TotalOrderAmount: draft.TotalOrderAmount,
		CommissionRate:   draft.CommissionRate,
		CommissionAmount: draft.CommissionAmount,
		TaxRate:          draft.TaxRate,
		TaxAmount:        draft.TaxAmount,
		Adjustments:      draft.Adjustments,
		NetAmount:        draft.NetAmount,
		Status:           entity.PayoutPending,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Create(tx, payout); err != nil {
			return err
		}
		if err := s.CommissionRepo.LinkToPayout(tx, draft.CommissionIDs, payout.ID, entity.CommissionProcessed); err != nil {
			return err
		}
		return s.AdjustmentRepo.Consume(tx, adjIDs, payout.ID)
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

// Transition drives the payout state machine. Completing a payout marks
// its commissions paid; the linked commissions follow the payout's
// lifecycle, never their own.
func (s *PayoutService) Transition(payoutID uint, to entity.PayoutStatus) (*entity.Payout, error) {
	p, err := s.Repo.Get(payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payout %d", payoutID)
		}
		return nil, err
	}
	if err := CanTransitionPayout(p.Status, to); err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, p.ID, p.Status, to)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.InvalidTransition("payout %d changed concurrently", payoutID)
		}
		if to == entity.PayoutCompleted {
			return s.CommissionRepo.SetStatusByPayout(tx, p.ID, entity.CommissionPaid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.Status = to
	return p, nil
}

func (s *PayoutService) Get(payoutID uint) (*entity.Payout, error) {
	p, err := s.Repo.Get(payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payout %d", payoutID)
		}
		return nil, err
	}
	return p, nil
}

func (s *PayoutService) ListByRestaurant(restID uint, limit int) ([]entity.Payout, error) {
	return s.Repo.ListByRestaurant(restID, limit)
}
