package server

import (
	"context"
	"encoding/json"
)

type directMessage struct {
	client  *Client
	payload []byte
}

// Hub fans a session's state pushes out to its WebSocket clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       <-chan struct{}
	logger     *Logger
}

func newHub(ctx context.Context, logger *Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		direct:     make(chan directMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       ctx.Done(),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled. Every
// client still connected at that point has its send channel closed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("WebSocket client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("WebSocket client disconnected")
			}
		case msg := <-h.direct:
			if _, ok := h.clients[msg.client]; ok {
				select {
				case msg.client.send <- msg.payload:
				default:
				}
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Too slow to keep up
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Dropped slow WebSocket client")
				}
			}
		}
	}
}

// Register adds c to the hub. It returns false if the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast serializes state and queues it for every client
func (h *Hub) Broadcast(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		h.logger.Error("Failed to serialize game state: " + err.Error())
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// SendTo queues payload for a single client
func (h *Hub) SendTo(c *Client, payload []byte) {
	select {
	case h.direct <- directMessage{client: c, payload: payload}:
	case <-h.done:
	}
}
