package controllers

import (
	"strconv"

	"delivergo/entity"
	"delivergo/pkg/resp"
	"delivergo/repository"
	"delivergo/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB   *gorm.DB
	Repo *repository.RestaurantRepository
}

func NewRestaurantController(db *gorm.DB, repo *repository.RestaurantRepository) *RestaurantController {
	return &RestaurantController{DB: db, Repo: repo}
}

// GET /restaurants
func (rc *RestaurantController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := rc.Repo.List(limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /restaurants/:id
func (rc *RestaurantController) Detail(c *gin.Context) {
	rest, err := rc.Repo.Get(paramUint(c, "id"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, rest)
}

// GET /restaurants/:id/menus
func (rc *RestaurantController) Menus(c *gin.Context) {
	var menus []entity.Menu
	err := rc.DB.
		Preload("Variations").
		Preload("Addons").
		Where("restaurant_id = ? AND available = ?", paramUint(c, "id"), true).
		Find(&menus).Error
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, menus)
}

type CreateMenuReq struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Variations  []struct {
		Name  string          `json:"name" binding:"required"`
		Price decimal.Decimal `json:"price"`
	} `json:"variations"`
	Addons []struct {
		Name  string          `json:"name" binding:"required"`
		Price decimal.Decimal `json:"price"`
	} `json:"addons"`
}

// POST /partner/restaurant/:id/menus
func (rc *RestaurantController) CreateMenu(c *gin.Context) {
	restID := paramUint(c, "id")

	ok, err := rc.Repo.IsOwnedBy(restID, utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	if !ok && utils.CurrentRole(c) != "admin" {
		resp.Forbidden(c, "forbidden")
		return
	}

	var req CreateMenuReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if req.Price.Sign() < 0 {
		resp.BadRequest(c, "price must not be negative")
		return
	}

	menu := entity.Menu{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Available:    true,
		RestaurantID: restID,
	}
	for _, v := range req.Variations {
		menu.Variations = append(menu.Variations, entity.Variation{Name: v.Name, Price: v.Price})
	}
	for _, a := range req.Addons {
		menu.Addons = append(menu.Addons, entity.Addon{Name: a.Name, Price: a.Price})
	}

	if err := rc.DB.Create(&menu).Error; err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, menu)
}

type SetCommissionReq struct {
	CommissionRate         decimal.Decimal `json:"commissionRate" binding:"required"`
	DeliveryCommissionRate decimal.Decimal `json:"deliveryCommissionRate"`
}

// PATCH /admin/restaurants/:id/commission
func (rc *RestaurantController) SetCommission(c *gin.Context) {
	var req SetCommissionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	hundred := decimal.NewFromInt(100)
	if req.CommissionRate.Sign() < 0 || req.CommissionRate.GreaterThan(hundred) ||
		req.DeliveryCommissionRate.Sign() < 0 || req.DeliveryCommissionRate.GreaterThan(hundred) {
		resp.BadRequest(c, "rates must be within [0,100]")
		return
	}

	restID := paramUint(c, "id")
	if _, err := rc.Repo.Get(restID); err != nil {
		resp.Error(c, err)
		return
	}
	if err := rc.Repo.UpdateCommissionRates(restID, req.CommissionRate, req.DeliveryCommissionRate); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"restaurantId": restID})
}
