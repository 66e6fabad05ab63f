package router

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/adapter/api/handler"
)

// SetupStreamRouter sets up the widget update stream
func SetupStreamRouter(e *echo.Echo, streamHandler *handler.StreamHandler) {
	e.GET("/v1/stream", streamHandler.HandleStream)
}
