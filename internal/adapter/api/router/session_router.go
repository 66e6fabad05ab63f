package router

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/adapter/api/handler"
)

func SetupSessionRouter(e *echo.Echo, sessionHandler *handler.SessionHandler) {
	e.GET("/v1/session", sessionHandler.GetSession)
}
