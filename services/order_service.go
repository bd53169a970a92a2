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

type OrderService struct {
	DB         *gorm.DB
	Repo       *repository.OrderRepository
	RestRepo   *repository.RestaurantRepository
	Tracking   *repository.TrackingRepository
	Commission *CommissionService

	DeliveryFee decimal.Decimal
	GatewayFee  decimal.Decimal
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	restRepo *repository.RestaurantRepository,
	tracking *repository.TrackingRepository,
	commission *CommissionService,
	deliveryFee, gatewayFee decimal.Decimal,
) *OrderService {
	return &OrderService{
		DB:          db,
		Repo:        repo,
		RestRepo:    restRepo,
		Tracking:    tracking,
		Commission:  commission,
		DeliveryFee: deliveryFee,
		GatewayFee:  gatewayFee,
	}
}

// ----- DTOs from controller -----

type OrderItemIn struct {
	MenuID       uint   `json:"menuId" binding:"required"`
	Qty          int    `json:"qty" binding:"required,min=1"`
	VariationIDs []uint `json:"variationIds"`
	AddonQtys    map[uint]int `json:"addonQtys"` // addon id -> quantity
}

type CreateOrderReq struct {
	RestaurantID     uint          `json:"restaurantId" binding:"required"`
	Items            []OrderItemIn `json:"items" binding:"required,min=1"`
	Address          string        `json:"address" binding:"required"`
	DropoffLatitude  float64       `json:"dropoffLatitude"`
	DropoffLongitude float64       `json:"dropoffLongitude"`
}

type CreateOrderRes struct {
	ID    uint            `json:"id"`
	Code  string          `json:"code"`
	Total decimal.Decimal `json:"total"`
}

// Create places an order: it snapshots menu prices into line items, runs
// the valuation over the snapshots, and writes the order, its items, the
// initial `placed` ledger event and the pending commission row in one
// transaction.
func (s *OrderService) Create(userID uint, req *CreateOrderReq) (*CreateOrderRes, error) {
	rest, err := s.RestRepo.Get(req.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("restaurant %d", req.RestaurantID)
		}
		return nil, err
	}

	menuIDs := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		menuIDs = append(menuIDs, it.MenuID)
	}
	ok, err := s.Repo.ValidateMenusBelongToRestaurant(menuIDs, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Validation("menu not in this restaurant")
	}

	type line struct {
		menu       *entity.Menu
		qty        int
		variations []VariationSelection
		addons     []AddonSelection
		subtotal   decimal.Decimal
	}
	lines := make([]line, 0, len(req.Items))
	subtotal := decimal.Zero

	for _, it := range req.Items {
		m, err := s.Repo.GetMenuWithExtras(it.MenuID)
		if err != nil {
			return nil, apperr.NotFound("menu %d", it.MenuID)
		}
		if !m.Available {
			return nil, apperr.Validation("menu %q is not available", m.Name)
		}

		variations, err := snapshotVariations(m, it.VariationIDs)
		if err != nil {
			return nil, err
		}
		addons, err := snapshotAddons(m, it.AddonQtys)
		if err != nil {
			return nil, err
		}

		lineTotal, err := ComputeSubtotal(m.Price, it.Qty, variations, addons)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, line{menu: m, qty: it.Qty, variations: variations, addons: addons, subtotal: lineTotal})
	}

	deliveryFee := money.Round(s.DeliveryFee)
	total := subtotal.Add(deliveryFee)

	var out CreateOrderRes
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order := entity.Order{
			Code:             uuid.NewString(),
			Subtotal:         subtotal,
			DeliveryFee:      deliveryFee,
			Total:            total,
			Status:           entity.StatusPlaced,
			Address:          req.Address,
			DropoffLatitude:  req.DropoffLatitude,
			DropoffLongitude: req.DropoffLongitude,
			UserID:           userID,
			RestaurantID:     req.RestaurantID,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}

		for _, l := range lines {
			oi := entity.OrderItem{
				Qty:       l.qty,
				Name:      l.menu.Name,
				UnitPrice: money.Round(l.menu.Price),
				Subtotal:  l.subtotal,
				OrderID:   order.ID,
				MenuID:    l.menu.ID,
			}
			for _, v := range l.variations {
				oi.Variations = append(oi.Variations, entity.OrderItemVariation{Name: v.Name, Price: v.Price})
			}
			for _, a := range l.addons {
				oi.Addons = append(oi.Addons, entity.OrderItemAddon{Name: a.Name, Price: a.Price, Qty: a.Qty})
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
		}

		ev := &entity.TrackingEvent{
			OrderID:   order.ID,
			Status:    entity.StatusPlaced,
			Timestamp: time.Now().UTC(),
			ActorKind: entity.ActorCustomer,
			ActorID:   userID,
		}
		if err := s.Tracking.Append(tx, ev); err != nil {
			return err
		}

		if _, err := s.Commission.RecordForOrder(tx, &order, rest, s.GatewayFee, order.CreatedAt); err != nil {
			return err
		}

		out = CreateOrderRes{ID: order.ID, Code: order.Code, Total: order.Total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func snapshotVariations(m *entity.Menu, ids []uint) ([]VariationSelection, error) {
	out := make([]VariationSelection, 0, len(ids))
	for _, id := range ids {
		found := false
		for _, v := range m.Variations {
			if v.ID == id {
				out = append(out, VariationSelection{Name: v.Name, Price: money.Round(v.Price)})
				found = true
				break
			}
		}
		if !found {
			return nil, apperr.Validation("variation %d does not belong to menu %q", id, m.Name)
		}
	}
	return out, nil
}

func snapshotAddons(m *entity.Menu, qtys map[uint]int) ([]AddonSelection, error) {
	out := make([]AddonSelection, 0, len(qtys))
	for _, a := range m.Addons {
		qty, picked := qtys[a.ID]
		if !picked {
			continue
		}
		if qty < 1 {
			return nil, apperr.Validation("addon %q quantity must be at least 1", a.Name)
		}
		out = append(out, AddonSelection{Name: a.Name, Price: money.Round(a.Price), Qty: qty})
	}
	if len(out) != len(qtys) {
		return nil, apperr.Validation("addon does not belong to menu %q", m.Name)
	}
	return out, nil
}

// ----- List & detail -----

func (s *OrderService) ListForUser(userID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForUser(userID, limit)
}

type OrderDetail struct {
	Order entity.Order       `json:"order"`
	Items []entity.OrderItem `json:"items"`
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*OrderDetail, error) {
	o, err := s.Repo.GetOrderForUser(userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d", orderID)
		}
		return nil, err
	}
	items, err := s.Repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}

type RestaurantOrderListOut struct {
	Items []repository.RestaurantOrderSummary `json:"items"`
	Total int64                               `json:"total"`
	Page  int                                 `json:"page"`
	Limit int                                 `json:"limit"`
}

func (s *OrderService) ListForRestaurant(userID, restID uint, status *entity.OrderStatus, page, limit int) (*RestaurantOrderListOut, error) {
	ok, err := s.RestRepo.IsOwnedBy(restID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("user %d does not own restaurant %d", userID, restID)
	}
	items, total, err := s.Repo.ListOrdersForRestaurant(restID, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &RestaurantOrderListOut{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *OrderService) DetailForRestaurant(userID, restID, orderID uint) (*OrderDetail, error) {
	ok, err := s.RestRepo.IsOwnedBy(restID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("user %d does not own restaurant %d", userID, restID)
	}
	o, err := s.Repo.GetOrderForRestaurant(restID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d", orderID)
		}
		return nil, err
	}
	items, err := s.Repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}
