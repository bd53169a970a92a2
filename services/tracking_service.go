package services

import (
	"errors"
	"time"
	"unicode/utf8"

	"delivergo/cache"
	"delivergo/entity"
	"delivergo/pkg/apperr"
	"delivergo/pkg/geo"
	"delivergo/repository"

	"gorm.io/gorm"
)

// ActorRef is a caller-resolved identity: the core records who updated
// the order but never dereferences the id itself.
type ActorRef struct {
	Kind entity.ActorKind `json:"kind"`
	ID   uint             `json:"id"`
}

// Broadcaster pushes appended events to live subscribers (the ws hub).
type Broadcaster interface {
	BroadcastEvent(orderID uint, ev *entity.TrackingEvent)
}

const maxNotesLen = 200

// Statuses each actor kind may set. Admins may set any status and are
// not listed.
var actorStatuses = map[entity.ActorKind]map[entity.OrderStatus]bool{
	entity.ActorCustomer: {
		entity.StatusCancelled: true,
	},
	entity.ActorRestaurant: {
		entity.StatusConfirmed: true,
		entity.StatusPreparing: true,
		entity.StatusReady:     true,
		entity.StatusRejected:  true,
		entity.StatusCancelled: true,
	},
	entity.ActorDeliveryPartner: {
		entity.StatusPickedUp:       true,
		entity.StatusOutForDelivery: true,
		entity.StatusDelivered:      true,
	},
}

type TrackingService struct {
	DB        *gorm.DB
	Repo      *repository.TrackingRepository
	OrderRepo *repository.OrderRepository
	RestRepo  *repository.RestaurantRepository
	Cache     *cache.Client
	Hub       Broadcaster // optional
}

func NewTrackingService(db *gorm.DB, repo *repository.TrackingRepository, orderRepo *repository.OrderRepository, restRepo *repository.RestaurantRepository, c *cache.Client) *TrackingService {
	return &TrackingService{DB: db, Repo: repo, OrderRepo: orderRepo, RestRepo: restRepo, Cache: c}
}

// authorizeWriter ties the actor to the order before any status write:
// the customer must be the order's customer, the restaurant actor must
// own the order's restaurant, and a rider must be the assigned one (or
// the order still unassigned). Admins pass.
func (s *TrackingService) authorizeWriter(order *entity.Order, actor ActorRef, to entity.OrderStatus) error {
	if actor.Kind == entity.ActorAdmin {
		return nil
	}
	if !actorStatuses[actor.Kind][to] {
		return apperr.Forbidden("%s may not set status %s", actor.Kind, to)
	}
	switch actor.Kind {
	case entity.ActorCustomer:
		if order.UserID != actor.ID {
			return apperr.Forbidden("order %d does not belong to user %d", order.ID, actor.ID)
		}
	case entity.ActorRestaurant:
		owned, err := s.RestRepo.IsOwnedBy(order.RestaurantID, actor.ID)
		if err != nil {
			return err
		}
		if !owned {
			return apperr.Forbidden("user %d does not own restaurant %d", actor.ID, order.RestaurantID)
		}
	case entity.ActorDeliveryPartner:
		if order.DeliveryPartnerID != nil && *order.DeliveryPartnerID != actor.ID {
			return apperr.Forbidden("order %d is assigned to another delivery partner", order.ID)
		}
	}
	return nil
}

func (s *TrackingService) authorizeViewer(order *entity.Order, actor ActorRef) error {
	switch actor.Kind {
	case entity.ActorAdmin:
		return nil
	case entity.ActorCustomer:
		if order.UserID == actor.ID {
			return nil
		}
	case entity.ActorRestaurant:
		owned, err := s.RestRepo.IsOwnedBy(order.RestaurantID, actor.ID)
		if err != nil {
			return err
		}
		if owned {
			return nil
		}
	case entity.ActorDeliveryPartner:
		// Unassigned orders stay visible so couriers can pick up jobs.
		if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID == actor.ID {
			return nil
		}
	}
	return apperr.Forbidden("order %d is not visible to %s %d", order.ID, actor.Kind, actor.ID)
}

// AuthorizeViewer is the participant gate for read surfaces that never
// touch the ledger themselves (the websocket feed).
func (s *TrackingService) AuthorizeViewer(orderID uint, actor ActorRef) error {
	order, err := s.getOrder(orderID)
	if err != nil {
		return err
	}
	return s.authorizeViewer(order, actor)
}

func (s *TrackingService) getOrder(orderID uint) (*entity.Order, error) {
	order, err := s.OrderRepo.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d", orderID)
		}
		return nil, err
	}
	return order, nil
}

type AppendEventIn struct {
	Status     entity.OrderStatus
	Actor      ActorRef
	Location   *geo.LatLng
	EtaMinutes *int
	Notes      string
}

// Append records one immutable ledger event and advances the order's
// denormalized status in the same transaction. The optimistic status
// guard serializes concurrent writers per order: whoever loses the race
// gets an invalid-transition error and nothing is written.
func (s *TrackingService) Append(orderID uint, in *AppendEventIn) (*entity.TrackingEvent, error) {
	if !in.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", in.Status)
	}
	if !in.Actor.Kind.Valid() {
		return nil, apperr.Validation("unknown actor kind %q", in.Actor.Kind)
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return nil, apperr.Validation("notes exceed %d characters", maxNotesLen)
	}

	var ev *entity.TrackingEvent
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.getOrder(orderID)
		if err != nil {
			return err
		}

		if err := s.authorizeWriter(order, in.Actor, in.Status); err != nil {
			return err
		}
		if err := CanTransition(order.Status, in.Status); err != nil {
			return err
		}

		if in.Actor.Kind == entity.ActorDeliveryPartner && order.DeliveryPartnerID == nil {
			claimed, err := s.OrderRepo.ClaimDelivery(tx, order.ID, in.Actor.ID)
			if err != nil {
				return err
			}
			if claimed == 0 {
				return apperr.Forbidden("order %d is assigned to another delivery partner", order.ID)
			}
		}

		affected, err := s.OrderRepo.UpdateStatusGuard(tx, order.ID, order.Status, in.Status)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.InvalidTransition("order %d changed concurrently", orderID)
		}

		ev = &entity.TrackingEvent{
			OrderID:    orderID,
			Status:     in.Status,
			Timestamp:  time.Now().UTC(),
			ActorKind:  in.Actor.Kind,
			ActorID:    in.Actor.ID,
			EtaMinutes: in.EtaMinutes,
			Notes:      in.Notes,
		}
		if in.Location != nil {
			lat, lng := in.Location.Latitude, in.Location.Longitude
			ev.Latitude, ev.Longitude = &lat, &lng

			// Courier position known but no ETA supplied: estimate from
			// the remaining leg to the dropoff point.
			if in.EtaMinutes == nil && in.Actor.Kind == entity.ActorDeliveryPartner {
				d := geo.DistanceKm(*in.Location, geo.LatLng{
					Latitude:  order.DropoffLatitude,
					Longitude: order.DropoffLongitude,
				})
				eta := geo.EstimateEtaMinutes(d, geo.DefaultSpeedKmh)
				ev.EtaMinutes = &eta
			}
		}
		return s.Repo.Append(tx, ev)
	})
	if err != nil {
		return nil, err
	}

	// Cache and fan-out happen after commit; both are best-effort.
	_ = s.Cache.SetLatestEvent(orderID, ev)
	if s.Hub != nil {
		s.Hub.BroadcastEvent(orderID, ev)
	}
	return ev, nil
}

// Latest returns the most recent ledger event visible to the actor,
// serving from cache when warm.
func (s *TrackingService) Latest(orderID uint, actor ActorRef) (*entity.TrackingEvent, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeViewer(order, actor); err != nil {
		return nil, err
	}

	if ev, err := s.Cache.GetLatestEvent(orderID); err == nil && ev != nil {
		return ev, nil
	}
	ev, err := s.Repo.Latest(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no tracking events for order %d", orderID)
		}
		return nil, err
	}
	_ = s.Cache.SetLatestEvent(orderID, ev)
	return ev, nil
}

// History returns the ledger oldest-first.
func (s *TrackingService) History(orderID uint, actor ActorRef) ([]entity.TrackingEvent, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeViewer(order, actor); err != nil {
		return nil, err
	}
	return s.Repo.History(orderID)
}
