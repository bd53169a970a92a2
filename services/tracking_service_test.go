package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"delivergo/entity"
	"delivergo/pkg/apperr"
	"delivergo/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One shared in-memory database per test; without cache=shared every
	// pooled connection would see its own empty schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.Restaurant{},
		&entity.Order{}, &entity.TrackingEvent{},
		&entity.Commission{}, &entity.Payout{},
		&entity.Adjustment{}, &entity.Dispute{},
	))
	return db
}

// Fixture identities: user 1 placed the order, user 7 owns the
// restaurant, user 5 is a courier, user 99 an admin.
var (
	custActor  = ActorRef{Kind: entity.ActorCustomer, ID: 1}
	ownerActor = ActorRef{Kind: entity.ActorRestaurant, ID: 7}
	riderActor = ActorRef{Kind: entity.ActorDeliveryPartner, ID: 5}
	adminActor = ActorRef{Kind: entity.ActorAdmin, ID: 99}
)

func newTestTracking(t *testing.T) (*TrackingService, *entity.Order) {
	t.Helper()
	db := newTestDB(t)
	svc := NewTrackingService(db,
		repository.NewTrackingRepository(db),
		repository.NewOrderRepository(db),
		repository.NewRestaurantRepository(db),
		nil, // no cache in tests
	)

	rest := &entity.Restaurant{Name: "test-kitchen", UserID: ownerActor.ID}
	require.NoError(t, db.Create(rest).Error)

	order := &entity.Order{Code: "test-order", Status: entity.StatusPlaced, UserID: custActor.ID, RestaurantID: rest.ID}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&entity.TrackingEvent{
		OrderID:   order.ID,
		Status:    entity.StatusPlaced,
		Timestamp: time.Now().UTC(),
		ActorKind: entity.ActorCustomer,
		ActorID:   custActor.ID,
	}).Error)
	return svc, order
}

func TestTrackingAppend(t *testing.T) {
	t.Run("forward append advances order", func(t *testing.T) {
		svc, order := newTestTracking(t)

		ev, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusConfirmed,
			Actor:  ownerActor,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusConfirmed, ev.Status)

		got, err := svc.OrderRepo.GetOrder(order.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusConfirmed, got.Status)
	})

	t.Run("backward append rejected", func(t *testing.T) {
		svc, order := newTestTracking(t)
		for _, st := range []entity.OrderStatus{entity.StatusConfirmed, entity.StatusDelivered} {
			_, err := svc.Append(order.ID, &AppendEventIn{Status: st, Actor: adminActor})
			require.NoError(t, err)
		}

		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusPlaced,
			Actor:  adminActor,
		})
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("nothing after cancellation", func(t *testing.T) {
		svc, order := newTestTracking(t)
		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusCancelled,
			Actor:  custActor,
		})
		require.NoError(t, err)

		_, err = svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusConfirmed,
			Actor:  ownerActor,
		})
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("validation before any write", func(t *testing.T) {
		svc, order := newTestTracking(t)

		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: "shipped",
			Actor:  custActor,
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusConfirmed,
			Actor:  ActorRef{Kind: "robot", ID: 1},
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusConfirmed,
			Actor:  ownerActor,
			Notes:  strings.Repeat("x", 201),
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		// only the seeded event remains
		evs, err := svc.History(order.ID, custActor)
		require.NoError(t, err)
		assert.Len(t, evs, 1)
	})

	t.Run("notes length counts characters not bytes", func(t *testing.T) {
		svc, order := newTestTracking(t)

		// 150 characters, three bytes each
		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusConfirmed,
			Actor:  ownerActor,
			Notes:  strings.Repeat("ก", 150),
		})
		require.NoError(t, err)

		_, err = svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusPreparing,
			Actor:  ownerActor,
			Notes:  strings.Repeat("ก", 201),
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := newTestTracking(t)
		_, err := svc.Append(999, &AppendEventIn{
			Status: entity.StatusConfirmed,
			Actor:  custActor,
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestTrackingAuthorization(t *testing.T) {
	t.Run("stranger cannot cancel someone else's order", func(t *testing.T) {
		svc, order := newTestTracking(t)

		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusCancelled,
			Actor:  ActorRef{Kind: entity.ActorCustomer, ID: 2},
		})
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		got, err := svc.OrderRepo.GetOrder(order.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPlaced, got.Status)

		evs, err := svc.History(order.ID, custActor)
		require.NoError(t, err)
		assert.Len(t, evs, 1)
	})

	t.Run("customer may only cancel", func(t *testing.T) {
		svc, order := newTestTracking(t)
		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusDelivered,
			Actor:  custActor,
		})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("non-owner restaurant actor rejected", func(t *testing.T) {
		svc, order := newTestTracking(t)
		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusConfirmed,
			Actor:  ActorRef{Kind: entity.ActorRestaurant, ID: 8},
		})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("first rider claims the order, others are locked out", func(t *testing.T) {
		svc, order := newTestTracking(t)
		for _, st := range []entity.OrderStatus{entity.StatusConfirmed, entity.StatusPreparing, entity.StatusReady} {
			_, err := svc.Append(order.ID, &AppendEventIn{Status: st, Actor: ownerActor})
			require.NoError(t, err)
		}

		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusPickedUp,
			Actor:  riderActor,
		})
		require.NoError(t, err)

		got, err := svc.OrderRepo.GetOrder(order.ID)
		require.NoError(t, err)
		require.NotNil(t, got.DeliveryPartnerID)
		assert.Equal(t, riderActor.ID, *got.DeliveryPartnerID)

		_, err = svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusOutForDelivery,
			Actor:  ActorRef{Kind: entity.ActorDeliveryPartner, ID: 6},
		})
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		_, err = svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusDelivered,
			Actor:  riderActor,
		})
		require.NoError(t, err)
	})

	t.Run("admin may set any status", func(t *testing.T) {
		svc, order := newTestTracking(t)
		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusRejected,
			Actor:  adminActor,
		})
		require.NoError(t, err)
	})

	t.Run("history and latest hidden from strangers", func(t *testing.T) {
		svc, order := newTestTracking(t)
		stranger := ActorRef{Kind: entity.ActorCustomer, ID: 2}

		_, err := svc.History(order.ID, stranger)
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		_, err = svc.Latest(order.ID, stranger)
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		assert.ErrorIs(t, svc.AuthorizeViewer(order.ID, stranger), apperr.ErrForbidden)
		assert.NoError(t, svc.AuthorizeViewer(order.ID, custActor))
		assert.NoError(t, svc.AuthorizeViewer(order.ID, ownerActor))
		assert.NoError(t, svc.AuthorizeViewer(order.ID, adminActor))
	})

	t.Run("assigned order hidden from other riders", func(t *testing.T) {
		svc, order := newTestTracking(t)
		// any courier may look at an unassigned order
		assert.NoError(t, svc.AuthorizeViewer(order.ID, riderActor))

		rider := riderActor.ID
		require.NoError(t, svc.DB.Model(order).Update("delivery_partner_id", rider).Error)

		assert.NoError(t, svc.AuthorizeViewer(order.ID, riderActor))
		other := ActorRef{Kind: entity.ActorDeliveryPartner, ID: 6}
		assert.ErrorIs(t, svc.AuthorizeViewer(order.ID, other), apperr.ErrForbidden)
	})
}

func TestTrackingQueries(t *testing.T) {
	t.Run("latest picks newest event", func(t *testing.T) {
		svc, order := newTestTracking(t)
		_, err := svc.Append(order.ID, &AppendEventIn{
			Status: entity.StatusConfirmed,
			Actor:  ownerActor,
		})
		require.NoError(t, err)

		ev, err := svc.Latest(order.ID, custActor)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusConfirmed, ev.Status)
	})

	t.Run("latest on empty history is not found", func(t *testing.T) {
		svc, order := newTestTracking(t)
		db := svc.DB
		bare := &entity.Order{Code: "bare", Status: entity.StatusPlaced, UserID: custActor.ID, RestaurantID: order.RestaurantID}
		require.NoError(t, db.Create(bare).Error)

		_, err := svc.Latest(bare.ID, custActor)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("history ascending and restartable", func(t *testing.T) {
		svc, order := newTestTracking(t)
		for _, st := range []entity.OrderStatus{entity.StatusConfirmed, entity.StatusPreparing} {
			_, err := svc.Append(order.ID, &AppendEventIn{Status: st, Actor: ownerActor})
			require.NoError(t, err)
		}

		first, err := svc.History(order.ID, custActor)
		require.NoError(t, err)
		require.Len(t, first, 3)
		assert.Equal(t, entity.StatusPlaced, first[0].Status)
		assert.Equal(t, entity.StatusPreparing, first[2].Status)
		for i := 1; i < len(first); i++ {
			assert.False(t, first[i].Timestamp.Before(first[i-1].Timestamp))
		}

		second, err := svc.History(order.ID, custActor)
		require.NoError(t, err)
		assert.Equal(t, len(first), len(second))
	})

	t.Run("history of unknown order is not found", func(t *testing.T) {
		svc, _ := newTestTracking(t)
		_, err := svc.History(12345, adminActor)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
