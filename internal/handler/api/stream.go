package api

import (
	"net/http"
	"time"

	domrepo "SentinelShield/internal/domain/repository"
	xlogger "SentinelShield/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamWriteTimeout = 5 * time.Second
	streamPingInterval = 30 * time.Second
)

// StreamHandler pushes newly filed alerts to websocket clients, one JSON
// alert per message.
type StreamHandler struct {
	logger   *xlogger.Logger
	ledger   domrepo.Ledger
	upgrader websocket.Upgrader
}

func NewStreamHandler(logger *xlogger.Logger, ledger domrepo.Ledger) *StreamHandler {
	return &StreamHandler{
		logger: logger,
		ledger: ledger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/alerts", h.AlertStream)
}

func (h *StreamHandler) AlertStream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return err
	}
	defer conn.Close()

	alerts, cancel := h.ledger.Subscribe()
	defer cancel()

	// Drain client frames so close handshakes and pongs are processed.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-gone:
			return nil
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case alert, ok := <-alerts:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(alert); err != nil {
				h.logger.Debug("websocket client dropped", xlogger.Error(err))
				return nil
			}
		}
	}
}
