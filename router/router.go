package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/controllers"
	"github.com/yeremiapane/restaurant-backoffice/middlewares"
)

// Controllers groups the handlers the router mounts.
type Controllers struct {
	Menu      *controllers.MenuController
	Order     *controllers.OrderController
	Dashboard *controllers.DashboardController
	Health    *controllers.HealthController
}

func SetupRouter(ctrl Controllers, cfg config.ServerConfig) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.AllowedOrigin))
	if cfg.RateLimit > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).RateLimit())
	}

	r.GET("/ping", ctrl.Health.Ping)
	r.GET("/health", ctrl.Health.Health)

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      MENU
	// ----------------------------------------------------------------
	menu := api.Group("/menu")
	{
		menu.GET("", ctrl.Menu.GetMenuItems)
		menu.GET("/search", ctrl.Menu.SearchMenuItems)
		menu.GET("/:id", ctrl.Menu.GetMenuItem)
		audit := middlewares.AuditLogger("menu_item")
		menu.POST("", audit, ctrl.Menu.CreateMenuItem)
		menu.PUT("/:id", audit, ctrl.Menu.UpdateMenuItem)
		menu.DELETE("/:id", audit, ctrl.Menu.DeleteMenuItem)
		menu.PATCH("/:id/availability", audit, ctrl.Menu.ToggleAvailability)
	}

	// ----------------------------------------------------------------
	//                      ORDERS
	// ----------------------------------------------------------------
	orders := api.Group("/orders")
	{
		orders.GET("", ctrl.Order.GetOrders)
		orders.GET("/top-selling", ctrl.Order.GetTopSelling)
		orders.GET("/summary", ctrl.Order.GetSummary)
		orders.GET("/:id", ctrl.Order.GetOrder)
		audit := middlewares.AuditLogger("order")
		orders.POST("", audit, ctrl.Order.CreateOrder)
		orders.PATCH("/:id/status", audit, ctrl.Order.UpdateOrderStatus)
	}

	// Live feed for the dashboard
	r.GET("/ws/dashboard", ctrl.Dashboard.Feed)

	return r
}
