package controllers

import (
	"delivergo/entity"
	"delivergo/pkg/geo"
	"delivergo/pkg/resp"
	"delivergo/services"
	"delivergo/utils"

	"github.com/gin-gonic/gin"
)

type TrackingController struct {
	Service *services.TrackingService
}

func NewTrackingController(s *services.TrackingService) *TrackingController {
	return &TrackingController{Service: s}
}

type UpdateStatusReq struct {
	Status     entity.OrderStatus `json:"status" binding:"required"`
	Latitude   *float64           `json:"latitude"`
	Longitude  *float64           `json:"longitude"`
	EtaMinutes *int               `json:"etaMinutes"`
	Notes      string             `json:"notes"`
}

// POST /orders/:id/tracking
func (tc *TrackingController) UpdateStatus(c *gin.Context) {
	orderID := paramUint(c, "id")

	var req UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	in := &services.AppendEventIn{
		Status: req.Status,
		Actor:  currentActor(c),
		EtaMinutes: req.EtaMinutes,
		Notes:      req.Notes,
	}
	if req.Latitude != nil && req.Longitude != nil {
		in.Location = &geo.LatLng{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	ev, err := tc.Service.Append(orderID, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, ev)
}

func currentActor(c *gin.Context) services.ActorRef {
	return services.ActorRef{
		Kind: utils.CurrentActorKind(c),
		ID:   utils.CurrentUserID(c),
	}
}

// GET /orders/:id/tracking
func (tc *TrackingController) History(c *gin.Context) {
	evs, err := tc.Service.History(paramUint(c, "id"), currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, evs)
}

// GET /orders/:id/tracking/latest
func (tc *TrackingController) Latest(c *gin.Context) {
	ev, err := tc.Service.Latest(paramUint(c, "id"), currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, ev)
}

// Subscribe gates the live feed: only order participants reach the
// websocket upgrade.
func (tc *TrackingController) Subscribe(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := tc.Service.AuthorizeViewer(paramUint(c, "id"), currentActor(c)); err != nil {
			resp.Error(c, err)
			return
		}
		next(c)
	}
}
