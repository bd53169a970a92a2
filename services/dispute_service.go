package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"delivergo/entity"
	"delivergo/pkg/apperr"
	"delivergo/pkg/money"
	"delivergo/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxSubjectLen     = 100
	maxDescriptionLen = 1000
)

// Dispute lifecycle: open -> in_progress -> resolved -> closed, with an
// administrative short-circuit straight to closed. Priority is
// independent of status.
var disputeTransitions = map[entity.DisputeStatus][]entity.DisputeStatus{
	entity.DisputeOpen:       {entity.DisputeInProgress, entity.DisputeClosed},
	entity.DisputeInProgress: {entity.DisputeResolved, entity.DisputeClosed},
	entity.DisputeResolved:   {entity.DisputeClosed},
}

func CanTransitionDispute(from, to entity.DisputeStatus) error {
	for _, allowed := range disputeTransitions[from] {
		if to == allowed {
			return nil
		}
	}
	return apperr.InvalidTransition("dispute cannot move from %s to %s", from, to)
}

type DisputeService struct {
	DB             *gorm.DB
	Repo           *repository.DisputeRepository
	OrderRepo      *repository.OrderRepository
	RestRepo       *repository.RestaurantRepository
	AdjustmentRepo *repository.AdjustmentRepository
}

func NewDisputeService(db *gorm.DB, repo *repository.DisputeRepository, orderRepo *repository.OrderRepository, restRepo *repository.RestaurantRepository, adjRepo *repository.AdjustmentRepository) *DisputeService {
	return &DisputeService{DB: db, Repo: repo, OrderRepo: orderRepo, RestRepo: restRepo, AdjustmentRepo: adjRepo}
}

type OpenDisputeIn struct {
	OrderID     uint
	RaisedBy    ActorRef
	Type        string
	Subject     string
	Description string
	Priority    entity.DisputePriority
}

func (s *DisputeService) Open(in *OpenDisputeIn) (*entity.Dispute, error) {
	switch in.RaisedBy.Kind {
	case entity.ActorCustomer, entity.ActorRestaurant, entity.ActorDeliveryPartner:
	default:
		return nil, apperr.Validation("disputes can be raised by customers, restaurants or delivery partners, not %q", in.RaisedBy.Kind)
	}
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" || utf8.RuneCountInString(in.Subject) > maxSubjectLen {
		return nil, apperr.Validation("subject is required and must be at most %d characters", maxSubjectLen)
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return nil, apperr.Validation("description must be at most %d characters", maxDescriptionLen)
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, apperr.Validation("unknown priority %q", in.Priority)
	}

	order, err := s.OrderRepo.GetOrder(in.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d", in.OrderID)
		}
		return nil, err
	}

	// Only the order's own participants may dispute it.
	switch in.RaisedBy.Kind {
	case entity.ActorCustomer:
		if order.UserID != in.RaisedBy.ID {
			return nil, apperr.Forbidden("order %d does not belong to user %d", order.ID, in.RaisedBy.ID)
		}
	case entity.ActorRestaurant:
		owned, err := s.RestRepo.IsOwnedBy(order.RestaurantID, in.RaisedBy.ID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, apperr.Forbidden("user %d does not own restaurant %d", in.RaisedBy.ID, order.RestaurantID)
		}
	case entity.ActorDeliveryPartner:
		if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != in.RaisedBy.ID {
			return nil, apperr.Forbidden("order %d is not assigned to delivery partner %d", order.ID, in.RaisedBy.ID)
		}
	}

	d := &entity.Dispute{
		OrderID:      in.OrderID,
		RaisedByKind: in.RaisedBy.Kind,
		RaisedByID:   in.RaisedBy.ID,
		Type:         in.Type,
		Subject:      in.Subject,
		Description:  in.Description,
		Status:       entity.DisputeOpen,
		Priority:     in.Priority,
	}
	if err := s.Repo.Create(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DisputeService) Transition(disputeID uint, to entity.DisputeStatus) (*entity.Dispute, error) {
	d, err := s.get(disputeID)
	if err != nil {
		return nil, err
	}
	if err := CanTransitionDispute(d.Status, to); err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, d.ID, d.Status, to)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.InvalidTransition("dispute %d changed concurrently", disputeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.Status = to
	return d, nil
}

// Resolve closes out a dispute from open or in_progress. A positive
// refund becomes a negative adjustment against the restaurant's next
// settlement, in the same transaction as the status flip.
func (s *DisputeService) Resolve(disputeID, resolvedBy uint, resolution string, refundAmount decimal.Decimal) (*entity.Dispute, error) {
	if money.IsNegative(refundAmount) {
		return nil, apperr.Validation("refund amount must not be negative")
	}
	d, err := s.get(disputeID)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.DisputeOpen && d.Status != entity.DisputeInProgress {
		return nil, apperr.InvalidTransition("dispute cannot be resolved from %s", d.Status)
	}

	order, err := s.OrderRepo.GetOrder(d.OrderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	refund := money.Round(refundAmount)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, d.ID, d.Status, entity.DisputeResolved)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.InvalidTransition("dispute %d changed concurrently", disputeID)
		}

		d.Status = entity.DisputeResolved
		d.Resolution = resolution
		d.RefundAmount = &refund
		d.ResolvedByID = &resolvedBy
		d.ResolvedAt = &now
		if err := s.Repo.Save(tx, d); err != nil {
			return err
		}

		if refund.Sign() > 0 {
			adj := &entity.Adjustment{
				RestaurantID: order.RestaurantID,
				Amount:       refund.Neg(),
				Reason:       "dispute refund: " + d.Subject,
				DisputeID:    &d.ID,
			}
			return s.AdjustmentRepo.Create(tx, adj)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DisputeService) Assign(disputeID, adminID uint) error {
	if _, err := s.get(disputeID); err != nil {
		return err
	}
	return s.Repo.Assign(disputeID, adminID)
}

func (s *DisputeService) List(status entity.DisputeStatus, priority entity.DisputePriority, limit int) ([]entity.Dispute, error) {
	return s.Repo.List(status, priority, limit)
}

func (s *DisputeService) get(disputeID uint) (*entity.Dispute, error) {
	d, err := s.Repo.Get(disputeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("dispute %d", disputeID)
		}
		return nil, err
	}
	return d, nil
}
