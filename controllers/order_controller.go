package controllers

import (
	"strconv"

	"delivergo/entity"
	"delivergo/pkg/resp"
	"delivergo/services"
	"delivergo/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := oc.Service.Create(uid, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	orderID := paramUint(c, "id")

	out, err := oc.Service.DetailForUser(uid, orderID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /profile/orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	out, err := oc.Service.ListForUser(uid, limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /partner/restaurant/:id/orders?status=&page=&limit=
func (oc *OrderController) ListForRestaurant(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	restID := paramUint(c, "id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var status *entity.OrderStatus
	if s := c.Query("status"); s != "" {
		st := entity.OrderStatus(s)
		if !st.Valid() {
			resp.BadRequest(c, "unknown status "+s)
			return
		}
		status = &st
	}

	out, err := oc.Service.ListForRestaurant(uid, restID, status, page, limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /partner/restaurant/:id/orders/:oid
func (oc *OrderController) DetailForRestaurant(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	restID := paramUint(c, "id")
	orderID := paramUint(c, "oid")

	out, err := oc.Service.DetailForRestaurant(uid, restID, orderID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

func paramUint(c *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(v)
}
