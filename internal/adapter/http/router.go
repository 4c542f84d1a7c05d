package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ATjewellers01/zold-cart-api/internal/adapter/http/middleware"
	"github.com/ATjewellers01/zold-cart-api/internal/adapter/ws"
	"github.com/ATjewellers01/zold-cart-api/internal/logging"
	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type Handlers struct {
	Cart   *CartHandler
	Rates  *RatesHandler
	Gifts  *GiftHandler
	Users  *UsersHandler
	Token  *TokenHandler
	WS     *ws.RatesHandler
	Orders usecase.OrderRepo
}

func NewRouter(h Handlers, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Info("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", h.Token.IssueToken)

	// Rate push stream; browsers authenticate the upgrade with a query token
	// handled upstream, so the route itself is open like /v1/rates/current.
	r.GET("/ws/rates", h.WS.Serve)

	v1 := r.Group("/v1")
	{
		v1.GET("/rates/current", h.Rates.CurrentRate)
		v1.GET("/quote", authz.Require("rates.read"), h.Rates.Quote)

		v1.GET("/cart", authz.Require("cart.read"), h.Cart.GetCart)
		v1.POST("/cart/items", authz.Require("cart.write"), h.Cart.AddItem)
		v1.PATCH("/cart/items/:denomination", authz.Require("cart.write"), h.Cart.UpdateQuantity)
		v1.DELETE("/cart/items/:denomination", authz.Require("cart.write"), h.Cart.RemoveItem)
		v1.DELETE("/cart", authz.Require("cart.write"), h.Cart.ClearCart)
		v1.POST("/cart/checkout", authz.Require("orders.write"), h.Cart.Checkout)

		v1.GET("/orders/:id", authz.Require("orders.read"), h.Cart.GetOrder(h.Orders))
		v1.POST("/gifts", authz.Require("cart.write"), h.Gifts.SendGift)
		v1.GET("/users", authz.Require("users.read"), h.Users.List)
	}

	return r
}
