package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pabobernando/confused-be/realtime"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API already serves every origin (see the CORS setup), the
		// event stream follows the same policy.
		return true
	},
}

type WebSocketHandler struct {
	hub *realtime.Hub
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeEvents обрабатывает GET /ws/events: подписка на события
// регистрации и оплаты.
func (h *WebSocketHandler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("failed to upgrade websocket connection", slog.Any("error", err))
		return
	}

	client := h.hub.NewClient(conn)
	go client.WritePump()
	go client.ReadPump()
}
