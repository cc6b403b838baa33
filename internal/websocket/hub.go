package websocket

import (
	"log"
	"sync"

	"github.com/dom/account-store/internal/domain"
)

// Hub tracks connected clients and fans broadcasts out to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *domain.PurchaseNotification
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopOnce   sync.Once
	stopped    bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *domain.PurchaseNotification, 16),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.stopped {
				client.Close()
			} else {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()

		case n := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				client.session.Notify(n)
			}
			h.mu.RUnlock()
		}
	}
}

// Stop closes every client and blocks until Run has returned. It is safe to
// call more than once and from several goroutines.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastNotification pushes a purchase notification to every connected
// client, each rendered in that client's locale. It drops the notification
// when the hub is backed up or stopped.
func (h *Hub) BroadcastNotification(n *domain.PurchaseNotification) {
	select {
	case h.broadcast <- n:
	case <-h.done:
	default:
		log.Printf("WARN [websocket.BroadcastNotification] hub busy, dropping notification")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
