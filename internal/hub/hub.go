package hub

import (
	"context"
	"log"
	"sync"
)

// Hub manages viewer WebSocket clients and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register adds a new client to the hub. The client can be sent to as soon
// as Register returns. After shutdown the client is closed instead.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		close(c.send)
		return
	default:
	}
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("Viewer connected (total: %d)", n)
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToPlayer sends a message to all clients with matching player index.
func (h *Hub) BroadcastToPlayer(msg []byte, playerIndex int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.PlayerIndex() == playerIndex {
			h.deliver(client, msg)
		}
	}
}

// SendTo sends a message to a single client if it is still registered.
func (h *Hub) SendTo(c *Client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.clients[c] {
		h.deliver(c, msg)
	}
}

// deliver must be called with mu held.
func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Client send buffer full, disconnect
		go h.Unregister(c)
	}
}

// Run starts the hub's main loop until ctx is cancelled. Should be run in a
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			close(h.done)
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("Viewer disconnected (total: %d)", n)
		}
	}
}
