package handler

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/usecase"
	"dentsync/pkg/response"
)

type MessengerHandler struct {
	messengerUseCase *usecase.MessengerUseCase
}

func NewMessengerHandler(messengerUseCase *usecase.MessengerUseCase) *MessengerHandler {
	return &MessengerHandler{
		messengerUseCase: messengerUseCase,
	}
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// GetConversations returns the cached conversation list, most recent first.
func (h *MessengerHandler) GetConversations(c echo.Context) error {
	return response.Success(c, h.messengerUseCase.Conversations())
}

// SelectConversation opens a conversation: leaves the previous room, joins
// the new one, and returns the deduplicated history.
func (h *MessengerHandler) SelectConversation(c echo.Context) error {
	conversationID := c.Param("id")

	messages, err := h.messengerUseCase.SelectConversation(c.Request().Context(), conversationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// GetMessages returns the cached history for a conversation.
func (h *MessengerHandler) GetMessages(c echo.Context) error {
	return response.Success(c, h.messengerUseCase.Messages(c.Param("id")))
}

// SendMessage posts a message to the open conversation.
func (h *MessengerHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.messengerUseCase.Send(c.Request().Context(), usecase.SendMessageInput{
		Content: req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetUnreadTotal returns the sidebar badge count.
func (h *MessengerHandler) GetUnreadTotal(c echo.Context) error {
	return response.Success(c, map[string]int{"unread": h.messengerUseCase.UnreadTotal()})
}
