package utils

import (
	"delivergo/entity"

	"github.com/gin-gonic/gin"
)

func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get("userId")
	switch id := v.(type) {
	case uint:
		return id
	case int:
		return uint(id)
	case int64:
		return uint(id)
	case float64:
		return uint(id)
	default:
		return 0
	}
}

func CurrentRole(c *gin.Context) string {
	if v, ok := c.Get("role"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// CurrentActorKind maps the authenticated role onto the actor taxonomy
// the tracking ledger records.
func CurrentActorKind(c *gin.Context) entity.ActorKind {
	switch CurrentRole(c) {
	case "owner":
		return entity.ActorRestaurant
	case "rider":
		return entity.ActorDeliveryPartner
	case "admin":
		return entity.ActorAdmin
	default:
		return entity.ActorCustomer
	}
}
