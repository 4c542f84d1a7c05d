package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ATjewellers01/zold-cart-api/internal/adapter/http/middleware"
	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type GiftHandler struct {
	send *usecase.SendCoinGift
}

func NewGiftHandler(send *usecase.SendCoinGift) *GiftHandler {
	return &GiftHandler{send: send}
}

type sendGiftReq struct {
	RecipientID  string `json:"recipientId" binding:"required"`
	Metal        string `json:"metal"`
	Denomination int    `json:"denomination" binding:"required,gt=0"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
}

type sendGiftResp struct {
	GiftID   string `json:"giftId"`
	Status   string `json:"status"`
	Quantity int    `json:"quantity"`
}

// SendGift creates a pending coin gift. Quantity over the sender's balance is
// clamped; a denomination the sender holds none of is a 409.
func (h *GiftHandler) SendGift(c *gin.Context) {
	senderID := middleware.UserID(c)
	if senderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_subject"})
		return
	}
	var req sendGiftReq
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

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.send.Execute(ctx, usecase.GiftInput{
		SenderID:     senderID,
		RecipientID:  req.RecipientID,
		Metal:        metal,
		Denomination: req.Denomination,
		Quantity:     req.Quantity,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrNotAvailable):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrInvalidQuantity):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, sendGiftResp{
		GiftID:   out.GiftID,
		Status:   out.Status,
		Quantity: out.Quantity,
	})
}
