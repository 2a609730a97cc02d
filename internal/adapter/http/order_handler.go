package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/treedelivery/treedelivery-backend/internal/adapter/http/middleware"
	"github.com/treedelivery/treedelivery-backend/internal/usecase"
	"github.com/treedelivery/treedelivery-backend/internal/validation"
)

const requestBudget = 5 * time.Second

// OrderHandler serves the public self-service surface. Field-level checks
// live in the validation package, not in binding tags, so rejections carry
// the distinct error kinds customers can act on.
type OrderHandler struct {
	orders *usecase.Orders
	prices *usecase.Prices
}

func NewOrderHandler(orders *usecase.Orders, prices *usecase.Prices) *OrderHandler {
	return &OrderHandler{orders: orders, prices: prices}
}

type orderReq struct {
	Name            string `json:"name"`
	Size            string `json:"size"`
	Street          string `json:"street"`
	Zip             string `json:"zip"`
	City            string `json:"city"`
	Email           string `json:"email"`
	Date            string `json:"date"`
	SpecialRequests string `json:"specialRequests"`
	CustomerID      string `json:"customerId"`
}

func (r orderReq) submission() validation.Submission {
	return validation.Submission{
		Name:            r.Name,
		Size:            r.Size,
		Street:          r.Street,
		Zip:             r.Zip,
		City:            r.City,
		Email:           r.Email,
		Date:            r.Date,
		SpecialRequests: r.SpecialRequests,
		CustomerID:      r.CustomerID,
	}
}

type keyReq struct {
	Email      string `json:"email"`
	CustomerID string `json:"customerId"`
}

func reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestBudget)
}

// CreateOrder handles POST /order.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.orders.Create(ctx, req.submission())
	if err != nil {
		writeError(c, err)
		return
	}
	if res.MailWarning {
		middleware.CountMailFailure()
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"customerId":  res.Order.CustomerID,
		"order":       res.Order,
		"mailWarning": res.MailWarning,
	})
}

// LookupOrder handles POST /lookup.
func (h *OrderHandler) LookupOrder(c *gin.Context) {
	var req keyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if !requireKey(c, req) {
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	o, err := h.orders.Lookup(ctx, req.Email, req.CustomerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateOrder handles POST /update.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.orders.Update(ctx, req.submission())
	if err != nil {
		writeError(c, err)
		return
	}
	if res.MailWarning {
		middleware.CountMailFailure()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"order":       res.Order,
		"mailWarning": res.MailWarning,
	})
}

// CancelOrder handles POST /delete.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req keyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if !requireKey(c, req) {
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.orders.Cancel(ctx, req.Email, req.CustomerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if res.MailWarning {
		middleware.CountMailFailure()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"mailWarning": res.MailWarning,
	})
}

// GetPrices handles GET /prices — the customer-facing price display.
func (h *OrderHandler) GetPrices(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.prices.Get(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// requireKey rejects lookup/cancel requests missing the capability pair.
func requireKey(c *gin.Context, req keyReq) bool {
	field := ""
	switch {
	case strings.TrimSpace(req.Email) == "":
		field = "email"
	case strings.TrimSpace(req.CustomerID) == "":
		field = "customerId"
	default:
		return true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "missing_field", "field": field})
	return false
}
