package handler

import (
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"dentsync/internal/infrastructure/stream"
	"dentsync/pkg/errors"
)

type StreamHandler struct {
	hub *stream.Hub
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Local-only surface; widgets connect from the embedding shell.
		return true
	},
}

func NewStreamHandler(hub *stream.Hub) *StreamHandler {
	return &StreamHandler{
		hub: hub,
	}
}

// HandleStream upgrades a widget connection and attaches it to the hub.
func (h *StreamHandler) HandleStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &stream.Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.hub.Register <- client

	go client.ReadPump(h.hub)
	go client.WritePump()

	return nil
}
