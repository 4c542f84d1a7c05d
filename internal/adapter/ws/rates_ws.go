// Package ws pushes live metal rates to browsers over WebSocket. The web
// client falls back to polling GET /v1/rates/current when the socket drops.
package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/rates"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// rateEvent is the frame sent to clients on every price move.
type rateEvent struct {
	Type string      `json:"type"`
	Data domain.Rate `json:"data"`
}

type RatesHandler struct {
	svc      *rates.Service
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewRatesHandler(svc *rates.Service, log *slog.Logger) *RatesHandler {
	return &RatesHandler{
		svc: svc,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The reverse proxy enforces origin policy in front of us.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and streams rate updates until the client goes
// away. Each connected client gets the latest known rates on join.
func (h *RatesHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.svc.Subscribe()
	defer cancel()

	for _, r := range h.svc.All() {
		if err := writeRate(conn, r); err != nil {
			return
		}
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case r, ok := <-updates:
			if !ok {
				return
			}
			if err := writeRate(conn, r); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeRate(conn *websocket.Conn, r domain.Rate) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(rateEvent{Type: "rateUpdate", Data: r})
}
