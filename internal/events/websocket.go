package events

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebsocketHandler upgrades requests to websocket connections and streams
// hub events to them as JSON text frames. Client messages are read only to
// service control frames and detect disconnects.
type WebsocketHandler struct {
	hub        *Hub
	upgrader   websocket.Upgrader
	bufferSize int
	logger     *slog.Logger
}

// NewWebsocketHandler creates a handler streaming events from hub.
func NewWebsocketHandler(hub *Hub, logger *slog.Logger) *WebsocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebsocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from other origins in development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		bufferSize: DefaultBufferSize,
		logger:     logger.With(slog.String("component", "realtime_ws")),
	}
}

// ServeHTTP implements http.Handler.
func (h *WebsocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		h.logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()

	sub := h.hub.Subscribe(h.bufferSize)
	defer h.hub.Unsubscribe(sub)

	log := h.logger.With(slog.String("subscription_id", sub.ID.String()))
	log.Info("realtime client connected", slog.String("remote_addr", r.RemoteAddr))

	done := make(chan struct{})
	go readPump(conn, done)

	writePump(conn, sub, done, log)
	log.Info("realtime client disconnected")
}

// readPump discards client messages and closes done when the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, sub *Subscription, done <-chan struct{}, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Debug("realtime write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
