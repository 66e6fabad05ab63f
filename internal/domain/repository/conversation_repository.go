package repository

import (
	"context"

	"dentsync/internal/domain/entity"
)

// ConversationRepository is the read/write surface of the clinic messaging API.
// Implementations hold no state; every call is an authenticated round trip.
type ConversationRepository interface {
	// GetMyConversation returns the caller's single conversation (customer view).
	GetMyConversation(ctx context.Context) (*entity.Conversation, error)
	// ListConversations returns the full conversation list (staff/dentist view).
	ListConversations(ctx context.Context) ([]*entity.Conversation, error)

	GetMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	SendMessage(ctx context.Context, conversationID, content string) (*entity.Message, error)
	MarkConversationRead(ctx context.Context, conversationID string) error
}
