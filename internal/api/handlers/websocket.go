package handlers

import (
	"log"
	"net/http"

	"github.com/dom/account-store/internal/api/middleware"
	"github.com/dom/account-store/internal/websocket"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub     *websocket.Hub
	browser websocket.Browser
}

func NewWebSocketHandler(hub *websocket.Hub, browser websocket.Browser) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		browser: browser,
	}
}

// Handle upgrades an anonymous storefront visitor. The session starts in the
// locale negotiated for the upgrade request.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, h.browser, middleware.GetLocale(r.Context()))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	client.Session().SyncState()
}
