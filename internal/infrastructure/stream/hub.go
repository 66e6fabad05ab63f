package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dentsync/pkg/logger"
)

// Client represents one connected UI widget
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Update is the frame forwarded to widgets after a merge.
type Update struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Hub fans reconciled state changes out to every open widget. It is the local
// mirror of the remote push channel: usecases publish here after a merge so
// widgets rerender without polling.
type Hub struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Start runs the hub's main loop in a goroutine
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-h.Register:
				h.mutex.Lock()
				h.clients[client.ID] = client
				h.mutex.Unlock()
				logger.Debug("Widget connected: %s", client.ID)

			case client := <-h.Unregister:
				h.mutex.Lock()
				if _, ok := h.clients[client.ID]; ok {
					delete(h.clients, client.ID)
					close(client.Send)
				}
				h.mutex.Unlock()
				logger.Debug("Widget disconnected: %s", client.ID)

			case payload := <-h.broadcast:
				h.mutex.Lock()
				for id, client := range h.clients {
					select {
					case client.Send <- payload:
					default:
						close(client.Send)
						delete(h.clients, id)
					}
				}
				h.mutex.Unlock()

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Publish queues an update for every connected widget.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Update{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to marshal widget update %s: %v", event, err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logger.Warn("Widget broadcast queue full, update %s dropped", event)
	}
}

// ReadPump drains (and discards) widget frames until the connection closes.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Widget stream read error: %v", err)
			}
			break
		}
	}
}

// WritePump sends queued updates to the widget connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("Widget stream write error: %v", err)
			return
		}
	}
}
