package controllers

import (
	"strconv"

	"delivergo/entity"
	"delivergo/pkg/resp"
	"delivergo/services"
	"delivergo/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DisputeController struct {
	Service *services.DisputeService
}

func NewDisputeController(s *services.DisputeService) *DisputeController {
	return &DisputeController{Service: s}
}

type OpenDisputeReq struct {
	OrderID     uint                   `json:"orderId" binding:"required"`
	Type        string                 `json:"type" binding:"required"`
	Subject     string                 `json:"subject" binding:"required"`
	Description string                 `json:"description"`
	Priority    entity.DisputePriority `json:"priority"`
}

// POST /disputes
func (dc *DisputeController) Open(c *gin.Context) {
	var req OpenDisputeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	d, err := dc.Service.Open(&services.OpenDisputeIn{
		OrderID: req.OrderID,
		RaisedBy: services.ActorRef{
			Kind: utils.CurrentActorKind(c),
			ID:   utils.CurrentUserID(c),
		},
		Type:        req.Type,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, d)
}

// GET /admin/disputes?status=&priority=
func (dc *DisputeController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := dc.Service.List(
		entity.DisputeStatus(c.Query("status")),
		entity.DisputePriority(c.Query("priority")),
		limit,
	)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type TransitionDisputeReq struct {
	Status entity.DisputeStatus `json:"status" binding:"required"`
}

// PATCH /admin/disputes/:id/status
func (dc *DisputeController) Transition(c *gin.Context) {
	var req TransitionDisputeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	d, err := dc.Service.Transition(paramUint(c, "id"), req.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, d)
}

type ResolveDisputeReq struct {
	Resolution   string          `json:"resolution" binding:"required"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
}

// PATCH /admin/disputes/:id/resolve
func (dc *DisputeController) Resolve(c *gin.Context) {
	var req ResolveDisputeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	d, err := dc.Service.Resolve(paramUint(c, "id"), utils.CurrentUserID(c), req.Resolution, req.RefundAmount)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, d)
}

type AssignDisputeReq struct {
	AdminID uint `json:"adminId" binding:"required"`
}

// PATCH /admin/disputes/:id/assign
func (dc *DisputeController) Assign(c *gin.Context) {
	var req AssignDisputeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := dc.Service.Assign(paramUint(c, "id"), req.AdminID); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"assigned": true})
}
