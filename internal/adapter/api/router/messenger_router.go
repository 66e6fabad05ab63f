package router

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/adapter/api/handler"
	"dentsync/internal/adapter/api/middleware"
)

// SetupMessengerRouter sets up the conversation and message routes
func SetupMessengerRouter(e *echo.Echo, messengerHandler *handler.MessengerHandler, sessionMiddleware *middleware.SessionMiddleware) {
	conversationGroup := e.Group("/v1/conversations")

	conversationGroup.GET("", messengerHandler.GetConversations)              // GET /v1/conversations - cached list
	conversationGroup.POST("/:id/select", messengerHandler.SelectConversation) // POST /v1/conversations/:id/select - open + fetch history
	conversationGroup.GET("/:id/messages", messengerHandler.GetMessages)      // GET /v1/conversations/:id/messages - cached history

	e.POST("/v1/messages", messengerHandler.SendMessage)          // POST /v1/messages - send to open conversation
	e.GET("/v1/messages/unread-total", messengerHandler.GetUnreadTotal) // GET /v1/messages/unread-total - sidebar badge
}
