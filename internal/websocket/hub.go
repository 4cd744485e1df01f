package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
)

const (
	// EventCartUpdated is pushed after every cart mutation.
	EventCartUpdated = "cart_updated"

	sendBufferSize      = 16
	broadcastBufferSize = 1024
)

// CartEvent is the message written to every socket of a session.
type CartEvent struct {
	Type      string `json:"type"`
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
}

// NewCartEvent summarises a cart for the navbar badge.
func NewCartEvent(cart model.Cart) CartEvent {
	return CartEvent{
		Type:      EventCartUpdated,
		ItemCount: cart.TotalItemCount(),
		Subtotal:  cart.Subtotal().StringFixed(2),
	}
}

// Client is one open socket. A session may have several (one per tab).
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	Send      chan []byte
}

// NewClient creates a client with a buffered send queue.
func NewClient(hub *Hub, conn *Conn, sessionID string) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, sendBufferSize),
	}
}

type broadcastMessage struct {
	sessionID string
	payload   []byte
}

// Hub fans cart events out to the sockets of a session.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	// done is closed when Run returns.
	done chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan broadcastMessage, broadcastBufferSize),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			total := len(h.clients[client.SessionID])
			h.mu.Unlock()
			logger.Debug("WebSocket client registered", map[string]interface{}{
				"session_id": client.SessionID,
				"sockets":    total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[message.sessionID] {
				select {
				case client.Send <- message.payload:
				default:
					// Slow consumer; drop it and let the tab reconnect.
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"session_id": message.sessionID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.clients[client.SessionID]
	if !ok {
		return
	}

	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}

	if len(kept) == 0 {
		delete(h.clients, client.SessionID)
	} else {
		h.clients[client.SessionID] = kept
	}
	close(client.Send)

	logger.Debug("WebSocket client unregistered", map[string]interface{}{
		"session_id": client.SessionID,
		"remaining":  len(kept),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Registrations queued before done was closed.
	for pending := true; pending; {
		select {
		case client := <-h.register:
			close(client.Send)
		default:
			pending = false
		}
	}
	for id, list := range h.clients {
		for _, c := range list {
			close(c.Send)
		}
		delete(h.clients, id)
	}
}

// Register adds a client. After shutdown the client's send queue is closed
// instead so its write pump exits.
func (h *Hub) Register(client *Client) {
	if h.stopped() {
		close(client.Send)
		return
	}
	select {
	case <-h.done:
		close(client.Send)
	case h.register <- client:
	}
}

// Unregister removes a client. It is a no-op after shutdown.
func (h *Hub) Unregister(client *Client) {
	if h.stopped() {
		return
	}
	select {
	case <-h.done:
	case h.unregister <- client:
	}
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// BroadcastCart queues a cart_updated event for the session. A full queue
// drops the event; the next mutation carries the fresh totals anyway.
func (h *Hub) BroadcastCart(sessionID string, cart model.Cart) {
	payload, err := json.Marshal(NewCartEvent(cart))
	if err != nil {
		logger.Error("Failed to marshal cart event", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}

	select {
	case h.broadcast <- broadcastMessage{sessionID: sessionID, payload: payload}:
	default:
		logger.Warn("Broadcast channel full, cart event dropped", map[string]interface{}{
			"session_id": sessionID,
		})
	}
}

// SessionSockets returns how many sockets are open for the session.
func (h *Hub) SessionSockets(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
