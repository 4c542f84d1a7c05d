package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/pricing"
	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type RatesHandler struct {
	rates   usecase.RateSource
	gstRate float64
}

func NewRatesHandler(rates usecase.RateSource, gstRate float64) *RatesHandler {
	return &RatesHandler{rates: rates, gstRate: gstRate}
}

// CurrentRate returns the latest known rate for a metal. 503 means no rate
// has ever loaded; clients must not treat that as a zero price.
func (h *RatesHandler) CurrentRate(c *gin.Context) {
	metal, ok := domain.ParseMetal(c.DefaultQuery("metal", string(domain.MetalGold)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_metal"})
		return
	}
	rate, ok := h.rates.Current(metal)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate_unavailable"})
		return
	}
	c.JSON(http.StatusOK, rate)
}

type quoteResp struct {
	Metal    domain.Metal `json:"metal"`
	Side     string       `json:"side"`
	Rate     float64      `json:"ratePerGram"`
	Grams    float64      `json:"grams"`
	Amount   float64      `json:"amount"`
	Tax      float64      `json:"tax"`
	Total    float64      `json:"total"`
	TaxRate  float64      `json:"taxRatePercent"`
	Currency string       `json:"currency"`
}

// Quote converts between INR and grams at the live rate and applies GST in
// the side's direction: buys pay tax on top, sells have it deducted from
// proceeds. Exactly one of amount= or grams= must be given.
func (h *RatesHandler) Quote(c *gin.Context) {
	metal, ok := domain.ParseMetal(c.DefaultQuery("metal", string(domain.MetalGold)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_metal"})
		return
	}
	side := c.DefaultQuery("side", "buy")
	if side != "buy" && side != "sell" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_side"})
		return
	}

	rate, ok := h.rates.Current(metal)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate_unavailable"})
		return
	}
	perGram := rate.BuyPerGram
	dir := pricing.TaxAdded
	if side == "sell" {
		perGram = rate.SellPerGram
		dir = pricing.TaxDeducted
	}

	amountQ, hasAmount := c.GetQuery("amount")
	gramsQ, hasGrams := c.GetQuery("grams")
	if hasAmount == hasGrams {
		c.JSON(http.StatusBadRequest, gin.H{"error": "need_amount_or_grams"})
		return
	}

	var amount, grams float64
	var convErr error
	if hasAmount {
		v, err := strconv.ParseFloat(amountQ, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
			return
		}
		amount = v
		grams, convErr = pricing.GramsFromAmount(amount, perGram)
	} else {
		v, err := strconv.ParseFloat(gramsQ, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
			return
		}
		grams = v
		amount, convErr = pricing.AmountFromGrams(grams, perGram)
	}
	if convErr != nil {
		status := http.StatusBadRequest
		if errors.Is(convErr, pricing.ErrRateUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": convErr.Error()})
		return
	}

	b, err := pricing.ApplyTax(amount, h.gstRate, dir)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quoteResp{
		Metal:    metal,
		Side:     side,
		Rate:     perGram,
		Grams:    grams,
		Amount:   amount,
		Tax:      b.Tax,
		Total:    b.Total,
		TaxRate:  h.gstRate,
		Currency: "INR",
	})
}
