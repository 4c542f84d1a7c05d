package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ATjewellers01/zold-cart-api/internal/adapter/http/middleware"
	"github.com/ATjewellers01/zold-cart-api/internal/cart"
	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/pricing"
	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type CartHandler struct {
	carts    *cart.Manager
	rates    usecase.RateSource
	inv      usecase.InventoryRepo
	checkout *usecase.Checkout
	gstRate  float64
}

func NewCartHandler(carts *cart.Manager, rates usecase.RateSource, inv usecase.InventoryRepo, checkout *usecase.Checkout, gstRate float64) *CartHandler {
	return &CartHandler{
		carts:    carts,
		rates:    rates,
		inv:      inv,
		checkout: checkout,
		gstRate:  gstRate,
	}
}

type cartResp struct {
	Items    []domain.LineItem `json:"items"`
	Summary  cart.Summary      `json:"summary"`
	Warnings []cart.Warning    `json:"warnings,omitempty"`
	IsOpen   bool              `json:"isOpen"`
}

// GetCart returns the user's current cart with a freshly computed summary and
// stock warnings. Both are derived on every read, never cached.
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_subject"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	store := h.carts.ForUser(ctx, userID)
	items := store.Items()

	var warnings []cart.Warning
	metal := metalParam(c)
	if len(items) > 0 && items[0].Metal != "" {
		metal = items[0].Metal
	}
	if stock, err := h.inv.ShopStock(ctx, metal); err == nil {
		warnings = cart.StockWarnings(items, stock)
	}

	c.JSON(http.StatusOK, cartResp{
		Items:    items,
		Summary:  cart.Summarize(items, h.gstRate, pricing.TaxAdded),
		Warnings: warnings,
		IsOpen:   store.IsOpen(),
	})
}

type addItemReq struct {
	Denomination int    `json:"denomination" binding:"required,gt=0"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	DisplayName  string `json:"displayName"`
	Metal        string `json:"metal"`
}

type addItemResp struct {
	Item    domain.LineItem `json:"item"`
	Clamped bool            `json:"clamped"`
	Summary cart.Summary    `json:"summary"`
}

// AddItem prices the denomination at the current buy rate, clamps the quantity
// against shop stock, and merges it into the cart. The priced line keeps that
// unit price for the rest of the session even as the live rate moves.
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_subject"})
		return
	}
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	metal := domain.MetalGold
	if req.Metal != "" {
		m, ok := domain.ParseMetal(req.Metal)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_metal"})
			return
		}
		metal = m
	}

	rate, ok := h.rates.Current(metal)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate_unavailable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	stock, err := h.inv.ShopStock(ctx, metal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "inventory_unavailable"})
		return
	}
	qty, err := cart.ClampAdd(req.Quantity, stock[req.Denomination])
	if err != nil {
		if errors.Is(err, domain.ErrNotAvailable) {
			c.JSON(http.StatusConflict, gin.H{"error": "not_available"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_quantity"})
		return
	}

	item := domain.LineItem{
		Metal:        metal,
		Denomination: req.Denomination,
		Quantity:     qty,
		UnitPrice:    float64(req.Denomination) * rate.BuyPerGram,
		DisplayName:  req.DisplayName,
	}
	store := h.carts.ForUser(ctx, userID)
	// One metal per cart: lines priced under gold cannot be checked out as
	// silver, so a cross-metal add is refused rather than mixed in.
	if existing := store.Items(); len(existing) > 0 && existing[0].Metal != "" && existing[0].Metal != metal {
		c.JSON(http.StatusConflict, gin.H{"error": "metal_mismatch"})
		return
	}
	if err := store.AddItem(ctx, item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_quantity"})
		return
	}

	c.JSON(http.StatusOK, addItemResp{
		Item:    item,
		Clamped: qty != req.Quantity,
		Summary: cart.Summarize(store.Items(), h.gstRate, pricing.TaxAdded),
	})
}

type updateQuantityReq struct {
	Delta int `json:"delta" binding:"required"`
}

// UpdateQuantity applies a signed delta to one line. Dropping to zero or below
// removes the line; an unknown denomination is a 404 with the cart untouched.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_subject"})
		return
	}
	denom, err := strconv.Atoi(c.Param("denomination"))
	if err != nil || denom <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	var req updateQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	store := h.carts.ForUser(ctx, userID)
	if err := store.UpdateQuantity(ctx, denom, req.Delta); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item_not_found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	c.JSON(http.StatusOK, cartResp{
		Items:   store.Items(),
		Summary: cart.Summarize(store.Items(), h.gstRate, pricing.TaxAdded),
		IsOpen:  store.IsOpen(),
	})
}

// RemoveItem deletes one line. Removing an absent denomination still returns
// 204 so retries are safe.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_subject"})
		return
	}
	denom, err := strconv.Atoi(c.Param("denomination"))
	if err != nil || denom <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	h.carts.ForUser(ctx, userID).RemoveItem(ctx, denom)
	c.Status(http.StatusNoContent)
}

// ClearCart empties the cart and closes it.
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_subject"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	h.carts.ForUser(ctx, userID).Clear(ctx)
	c.Status(http.StatusNoContent)
}

type checkoutResp struct {
	OrderID string       `json:"orderId"`
	Status  string       `json:"status"`
	Summary cart.Summary `json:"summary"`
}

// Checkout submits the cart as an order. Retries with the same
// X-Idempotency-Key return the original order id.
func (h *CartHandler) Checkout(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_subject"})
		return
	}
	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated requests
	if idemKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		UserID:         userID,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			status = http.StatusBadRequest
		case errors.Is(err, usecase.ErrDuplicate):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, checkoutResp{
		OrderID: out.OrderID,
		Status:  out.Status,
		Summary: out.Summary,
	})
}

// GetOrder reports a single order, mainly for the post-checkout status screen.
func (h *CartHandler) GetOrder(query usecase.OrderRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		rec, err := query.GetByID(ctx, c.Param("id"))
		if err != nil || rec == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":               rec.ID,
			"userId":           rec.UserID,
			"status":           rec.Status,
			"metal":            rec.Metal,
			"subtotal":         rec.Subtotal,
			"tax":              rec.Tax,
			"total":            rec.Total,
			"totalUnits":       rec.TotalUnits,
			"totalWeightGrams": rec.TotalWeightGrams,
			"items":            rec.ItemsJSON,
		})
	}
}

func metalParam(c *gin.Context) domain.Metal {
	if m, ok := domain.ParseMetal(c.Query("metal")); ok {
		return m
	}
	return domain.MetalGold
}
