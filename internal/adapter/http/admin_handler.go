package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/usecase"
)

// AdminHandler serves the dashboard API behind the session gate.
type AdminHandler struct {
	orders *usecase.Orders
	prices *usecase.Prices
}

func NewAdminHandler(orders *usecase.Orders, prices *usecase.Prices) *AdminHandler {
	return &AdminHandler{orders: orders, prices: prices}
}

// ListOrders handles GET /api/admin/orders.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Deliveries handles GET /api/admin/deliveries/:date.
func (h *AdminHandler) Deliveries(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.orders.DeliveriesOn(ctx, c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type statusReq struct {
	CustomerID string `json:"customerId" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// SetStatus handles POST /api/admin/status.
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.orders.SetStatus(ctx, req.CustomerID, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type deliveryMailReq struct {
	CustomerID string `json:"customerId" binding:"required"`
	FromTime   string `json:"fromTime" binding:"required"`
	ToTime     string `json:"toTime" binding:"required"`
}

// DeliveryMail handles POST /api/admin/delivery-mail.
func (h *AdminHandler) DeliveryMail(c *gin.Context) {
	var req deliveryMailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.orders.SendDeliveryWindow(ctx, req.CustomerID, req.FromTime, req.ToTime); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetPrices handles GET /api/admin/prices.
func (h *AdminHandler) GetPrices(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.prices.Get(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// SetPrices handles POST /api/admin/prices.
func (h *AdminHandler) SetPrices(c *gin.Context) {
	var t domain.PriceTable
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.prices.Set(ctx, t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
