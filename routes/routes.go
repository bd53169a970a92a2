package routes

import (
	"delivergo/cache"
	"delivergo/configs"
	"delivergo/controllers"
	"delivergo/middlewares"
	"delivergo/repository"
	"delivergo/services"
	"delivergo/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, cacheClient *cache.Client) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	trackRepo := repository.NewTrackingRepository(db)
	commRepo := repository.NewCommissionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	disputeRepo := repository.NewDisputeRepository(db)
	adjRepo := repository.NewAdjustmentRepository(db)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	commSvc := services.NewCommissionService(db, commRepo)
	orderSvc := services.NewOrderService(db, orderRepo, restRepo, trackRepo, commSvc, cfg.DeliveryFee, cfg.GatewayFee)
	trackSvc := services.NewTrackingService(db, trackRepo, orderRepo, restRepo, cacheClient)
	payoutSvc := services.NewPayoutService(db, payoutRepo, commRepo, adjRepo, cfg.TaxRatePct)
	disputeSvc := services.NewDisputeService(db, disputeRepo, orderRepo, restRepo, adjRepo)

	// Live tracking feed
	hub := ws.NewTrackingHub()
	go hub.Run()
	trackSvc.Hub = hub

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	restCtrl := controllers.NewRestaurantController(db, restRepo)
	orderCtrl := controllers.NewOrderController(orderSvc)
	trackCtrl := controllers.NewTrackingController(trackSvc)
	commCtrl := controllers.NewCommissionController(commSvc)
	payoutCtrl := controllers.NewPayoutController(payoutSvc)
	disputeCtrl := controllers.NewDisputeController(disputeSvc)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	a.GET("/me", middlewares.AuthMiddleware(cfg.JWTSecret), authCtrl.Me)

	// Public browse
	r.GET("/restaurants", restCtrl.List)
	r.GET("/restaurants/:id", restCtrl.Detail)
	r.GET("/restaurants/:id/menus", restCtrl.Menus)

	// Orders + tracking (any authenticated participant)
	u := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		u.POST("/orders", orderCtrl.Create)
		u.GET("/orders/:id", orderCtrl.Detail)
		u.GET("/orders/:id/tracking", trackCtrl.History)
		u.GET("/orders/:id/tracking/latest", trackCtrl.Latest)
		u.POST("/orders/:id/tracking", trackCtrl.UpdateStatus)
		u.GET("/profile/orders", orderCtrl.ListForMe)
		u.POST("/disputes", disputeCtrl.Open)
	}

	// Live tracking over websocket; token comes via query string, and only
	// the order's participants may subscribe
	r.GET("/ws/orders/:id", middlewares.WSAuthMiddleware(cfg.JWTSecret), trackCtrl.Subscribe(hub.HandleWebSocket))

	// Partner restaurant (owner/admin)
	partnerRest := r.Group("/partner/restaurant", middlewares.AuthMiddleware(cfg.JWTSecret, "owner", "admin"))
	{
		partnerRest.GET("/:id/orders", orderCtrl.ListForRestaurant)
		partnerRest.GET("/:id/orders/:oid", orderCtrl.DetailForRestaurant)
		partnerRest.POST("/:id/menus", restCtrl.CreateMenu)
	}

	// Admin back office
	admin := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, "admin"))
	{
		admin.PATCH("/restaurants/:id/commission", restCtrl.SetCommission)
		admin.GET("/restaurants/:id/commissions", commCtrl.ListByRestaurant)
		admin.GET("/orders/:id/commission", commCtrl.GetByOrder)

		admin.POST("/payouts", payoutCtrl.Create)
		admin.GET("/payouts/:id", payoutCtrl.Detail)
		admin.GET("/restaurants/:id/payouts", payoutCtrl.ListByRestaurant)
		admin.PATCH("/payouts/:id/process", payoutCtrl.BeginProcessing)
		admin.PATCH("/payouts/:id/complete", payoutCtrl.Complete)
		admin.PATCH("/payouts/:id/fail", payoutCtrl.Fail)
		admin.PATCH("/payouts/:id/cancel", payoutCtrl.Cancel)

		admin.GET("/disputes", disputeCtrl.List)
		admin.PATCH("/disputes/:id/status", disputeCtrl.Transition)
		admin.PATCH("/disputes/:id/resolve", disputeCtrl.Resolve)
		admin.PATCH("/disputes/:id/assign", disputeCtrl.Assign)
	}
}
