package restclient

import (
	"context"

	"dentsync/internal/domain/entity"
	"dentsync/internal/domain/repository"
	"dentsync/pkg/errors"
)

type restConversationRepository struct {
	client *Client
}

func NewRestConversationRepository(client *Client) repository.ConversationRepository {
	return &restConversationRepository{
		client: client,
	}
}

func (r *restConversationRepository) GetMyConversation(ctx context.Context) (*entity.Conversation, error) {
	var conversation entity.Conversation
	if err := r.client.get(ctx, "/conversation/my-conversation", &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *restConversationRepository) ListConversations(ctx context.Context) ([]*entity.Conversation, error) {
	var conversations []*entity.Conversation
	if err := r.client.get(ctx, "/conversation/all-conversation", &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *restConversationRepository) GetMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	if conversationID == "" {
		return nil, errors.BadRequest("Conversation id is required", nil)
	}

	var messages []*entity.Message
	if err := r.client.get(ctx, "/message/conversation/"+conversationID, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type sendMessageBody struct {
	Content        string `json:"content"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// SendMessage posts a message. For a customer's first message the id is
// omitted and the server creates the conversation; the returned message
// carries the new conversation's id.
func (r *restConversationRepository) SendMessage(ctx context.Context, conversationID, content string) (*entity.Message, error) {
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}

	var message entity.Message
	body := sendMessageBody{Content: content, ConversationID: conversationID}
	if err := r.client.post(ctx, "/message/send-message", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *restConversationRepository) MarkConversationRead(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return errors.BadRequest("Conversation id is required", nil)
	}
	return r.client.put(ctx, "/message/mark-read/"+conversationID, nil, nil)
}
