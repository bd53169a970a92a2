package controllers

import (
	"strconv"

	"delivergo/pkg/resp"
	"delivergo/services"

	"github.com/gin-gonic/gin"
)

type CommissionController struct {
	Service *services.CommissionService
}

func NewCommissionController(s *services.CommissionService) *CommissionController {
	return &CommissionController{Service: s}
}

// GET /admin/restaurants/:id/commissions?month=&year=
func (cc *CommissionController) ListByRestaurant(c *gin.Context) {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))

	out, err := cc.Service.ListByRestaurant(paramUint(c, "id"), month, year)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /admin/orders/:id/commission
func (cc *CommissionController) GetByOrder(c *gin.Context) {
	out, err := cc.Service.Repo.GetByOrder(paramUint(c, "id"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
