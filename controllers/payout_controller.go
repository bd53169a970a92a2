package controllers

import (
	"strconv"
	"time"

	"delivergo/entity"
	"delivergo/pkg/resp"
	"delivergo/services"

	"github.com/gin-gonic/gin"
)

type PayoutController struct {
	Service *services.PayoutService
}

func NewPayoutController(s *services.PayoutService) *PayoutController {
	return &PayoutController{Service: s}
}

type CreatePayoutReq struct {
	RestaurantID uint   `json:"restaurantId" binding:"required"`
	PeriodStart  string `json:"periodStart" binding:"required"` // YYYY-MM-DD
	PeriodEnd    string `json:"periodEnd" binding:"required"`
}

// POST /admin/payouts
func (pc *PayoutController) Create(c *gin.Context) {
	var req CreatePayoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	start, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		resp.BadRequest(c, "periodStart must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		resp.BadRequest(c, "periodEnd must be YYYY-MM-DD")
		return
	}

	payout, err := pc.Service.CreateForPeriod(req.RestaurantID, start, end)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, payout)
}

// GET /admin/payouts/:id
func (pc *PayoutController) Detail(c *gin.Context) {
	out, err := pc.Service.Get(paramUint(c, "id"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /admin/restaurants/:id/payouts
func (pc *PayoutController) ListByRestaurant(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := pc.Service.ListByRestaurant(paramUint(c, "id"), limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// The four lifecycle endpoints below drive the payout state machine;
// the gateway's confirm/reject arrives via the operator back office.

// PATCH /admin/payouts/:id/process
func (pc *PayoutController) BeginProcessing(c *gin.Context) {
	pc.transition(c, entity.PayoutProcessing)
}

// PATCH /admin/payouts/:id/complete
func (pc *PayoutController) Complete(c *gin.Context) {
	pc.transition(c, entity.PayoutCompleted)
}

// PATCH /admin/payouts/:id/fail
func (pc *PayoutController) Fail(c *gin.Context) {
	pc.transition(c, entity.PayoutFailed)
}

// PATCH /admin/payouts/:id/cancel
func (pc *PayoutController) Cancel(c *gin.Context) {
	pc.transition(c, entity.PayoutCancelled)
}

func (pc *PayoutController) transition(c *gin.Context, to entity.PayoutStatus) {
	out, err := pc.Service.Transition(paramUint(c, "id"), to)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
