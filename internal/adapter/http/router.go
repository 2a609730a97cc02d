package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/treedelivery/treedelivery-backend/internal/adapter/http/middleware"
	"github.com/treedelivery/treedelivery-backend/internal/logging"
)

func NewRouter(h *OrderHandler, ah *AdminHandler, lh *LoginHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// public self-service surface
	r.POST("/order", h.CreateOrder)
	r.POST("/lookup", h.LookupOrder)
	r.POST("/update", h.UpdateOrder)
	r.POST("/delete", h.CancelOrder)
	r.GET("/prices", h.GetPrices)

	// admin surface: everything behind the session gate except login
	admin := r.Group("/api/admin")
	admin.POST("/login", lh.Login)
	{
		gated := admin.Group("", authz.RequireAdmin())
		gated.GET("/orders", ah.ListOrders)
		gated.GET("/deliveries/:date", ah.Deliveries)
		gated.POST("/status", ah.SetStatus)
		gated.POST("/delivery-mail", ah.DeliveryMail)
		gated.GET("/prices", ah.GetPrices)
		gated.POST("/prices", ah.SetPrices)
	}

	return r
}
