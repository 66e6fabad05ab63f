package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"dentsync/internal/domain/entity"
	"dentsync/internal/domain/repository"
	"dentsync/internal/infrastructure/push"
	"dentsync/internal/infrastructure/ratelimit"
	"dentsync/internal/infrastructure/session"
	"dentsync/pkg/errors"
)

// MessengerUseCase reconciles the conversation and message caches against the
// REST snapshots and the push channel. It owns exactly one conversation-room
// subscription at a time; selecting a conversation leaves the previous room
// before the new join is written, so stale rooms can never feed the new view.
type MessengerUseCase struct {
	convRepo    repository.ConversationRepository
	pushManager *push.Manager
	publisher   Publisher
	rateLimiter *ratelimit.RateLimiter
	sess        *session.Session

	mu            sync.Mutex
	conversations []*entity.Conversation          // most recent activity first
	messages      map[string][]*entity.Message    // per conversation, oldest first
	selectedID    string
	convSub       *push.Subscription
	listSub       *push.Subscription
}

func NewMessengerUseCase(
	convRepo repository.ConversationRepository,
	pushManager *push.Manager,
	publisher Publisher,
	rateLimiter *ratelimit.RateLimiter,
	sess *session.Session,
) *MessengerUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &MessengerUseCase{
		convRepo:    convRepo,
		pushManager: pushManager,
		publisher:   publisher,
		rateLimiter: rateLimiter,
		sess:        sess,
		messages:    make(map[string][]*entity.Message),
	}
}

// Open fetches the conversation snapshot for the caller's role and starts
// listening for conversation-list updates.
func (uc *MessengerUseCase) Open(ctx context.Context) error {
	var conversations []*entity.Conversation

	if uc.sess.IsStaff() {
		list, err := uc.convRepo.ListConversations(ctx)
		if err != nil {
			log.Printf("Open Error: Failed to list conversations: %v", err)
			return err
		}
		conversations = list
	} else {
		conversation, err := uc.convRepo.GetMyConversation(ctx)
		if err != nil {
			// A customer who never messaged has no conversation yet.
			if errors.Is(err, "NOT_FOUND") {
				conversations = nil
			} else {
				log.Printf("Open Error: Failed to fetch my conversation: %v", err)
				return err
			}
		} else if conversation != nil && conversation.ID != "" {
			conversations = []*entity.Conversation{conversation}
		}
	}

	listSub, err := uc.pushManager.Subscribe(push.RoomConversationList)
	if err != nil {
		log.Printf("Open Error: Failed to subscribe to conversation updates: %v", err)
		return err
	}

	uc.mu.Lock()
	uc.conversations = conversations
	uc.sortConversationsLocked()
	uc.listSub = listSub
	uc.mu.Unlock()

	go uc.pump(listSub)

	return nil
}

// SelectConversation switches the open conversation: the old room is left,
// the new room joined, history fetched and everything in it marked read.
func (uc *MessengerUseCase) SelectConversation(ctx context.Context, conversationID string) ([]entity.Message, error) {
	if conversationID == "" {
		return nil, errors.BadRequest("Conversation id is required", nil)
	}

	uc.mu.Lock()
	prev := uc.convSub
	uc.convSub = nil
	uc.selectedID = ""
	uc.mu.Unlock()

	// Leave before join: the old room's leave frame is written before the
	// new room's join frame.
	if prev != nil {
		prev.Close()
	}

	sub, err := uc.pushManager.Subscribe(push.RoomConversation(conversationID))
	if err != nil {
		log.Printf("SelectConversation Error: Failed to join room for %s: %v", conversationID, err)
		return nil, errors.Internal("Failed to join conversation room", err)
	}

	history, err := uc.convRepo.GetMessages(ctx, conversationID)
	if err != nil {
		sub.Close()
		log.Printf("SelectConversation Error: Failed to fetch history for %s: %v", conversationID, err)
		return nil, err
	}

	if err := uc.convRepo.MarkConversationRead(ctx, conversationID); err != nil {
		// Non-fatal: the local cache is still zeroed, the server catches up
		// on the next mark-read.
		log.Printf("SelectConversation Warning: Failed to mark %s read: %v", conversationID, err)
	}

	uc.mu.Lock()
	uc.selectedID = conversationID
	uc.messages[conversationID] = dedupeByID(history)
	for _, message := range uc.messages[conversationID] {
		message.IsRead = true
	}
	if conversation := uc.findConversationLocked(conversationID); conversation != nil {
		conversation.UnreadCount = 0
	}
	uc.convSub = sub
	snapshot := uc.copyMessagesLocked(conversationID)
	uc.mu.Unlock()

	go uc.pump(sub)

	uc.publisher.Publish(push.EventConversationUpdate, uc.Conversations())

	return snapshot, nil
}

type SendMessageInput struct {
	Content string
}

// Send posts a message to the open conversation (or opens one, for a
// customer's first message) and inserts the result optimistically. The
// broadcast echo of the same message is deduplicated by id on arrival.
func (uc *MessengerUseCase) Send(ctx context.Context, input SendMessageInput) (*entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow("send_message")
	if !allowed {
		log.Printf("Send Rate Limited: must wait %v", waitTime)
		return nil, errors.TooManyRequests("You are sending messages too quickly. Please slow down.", waitTime)
	}

	uc.mu.Lock()
	conversationID := uc.selectedID
	uc.mu.Unlock()

	message, err := uc.convRepo.SendMessage(ctx, conversationID, content)
	if err != nil {
		log.Printf("Send Error: Failed to send message: %v", err)
		return nil, err
	}

	message.SenderID = uc.sess.UserID
	message.IsRead = true

	// First customer message: the server just created the conversation.
	if conversationID == "" && message.ConversationID != "" {
		if _, err := uc.SelectConversation(ctx, message.ConversationID); err != nil {
			log.Printf("Send Warning: Failed to open new conversation %s: %v", message.ConversationID, err)
		}
	}

	uc.mergeMessage(message)

	return message, nil
}

// pump drains a subscription until its channel closes.
func (uc *MessengerUseCase) pump(sub *push.Subscription) {
	for event := range sub.Events() {
		switch event.Name {
		case push.EventNewMessage:
			message, err := event.Message()
			if err != nil {
				log.Printf("pump Warning: Malformed newMessage payload: %v", err)
				continue
			}
			uc.mergeMessage(message)

		case push.EventConversationUpdate:
			conversation, err := event.Conversation()
			if err != nil {
				log.Printf("pump Warning: Malformed conversationUpdate payload: %v", err)
				continue
			}
			uc.mergeConversation(conversation)
		}
	}
}

// mergeMessage appends a message to its conversation if the id is not cached
// yet, then maintains unread counts and conversation ordering. Safe against
// the REST snapshot racing the push broadcast in either order.
func (uc *MessengerUseCase) mergeMessage(message *entity.Message) {
	if message == nil || message.ID == "" || message.ConversationID == "" {
		return
	}

	uc.mu.Lock()

	list := uc.messages[message.ConversationID]
	for _, existing := range list {
		if existing.ID == message.ID {
			uc.mu.Unlock()
			return
		}
	}

	isOpen := uc.selectedID == message.ConversationID
	ownMessage := message.SenderID == uc.sess.UserID
	if isOpen || ownMessage {
		message.IsRead = true
	}
	uc.messages[message.ConversationID] = append(list, message)

	conversation := uc.findConversationLocked(message.ConversationID)
	if conversation == nil {
		// First contact from a customer not in the snapshot yet.
		conversation = &entity.Conversation{
			ID:         message.ConversationID,
			CustomerID: message.SenderID,
			CreatedAt:  message.CreatedAt,
		}
		uc.conversations = append(uc.conversations, conversation)
	}

	conversation.LastMessage = message.Content
	conversation.LastSenderID = message.SenderID
	conversation.LastMessageAt = message.CreatedAt
	if isOpen || ownMessage {
		conversation.UnreadCount = 0
	} else {
		conversation.UnreadCount++
	}
	uc.sortConversationsLocked()

	messageCopy := *message
	uc.mu.Unlock()

	// The open conversation is read by definition; tell the server so.
	if isOpen && !ownMessage {
		go func(conversationID string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := uc.convRepo.MarkConversationRead(ctx, conversationID); err != nil {
				log.Printf("mergeMessage Warning: Failed to mark %s read: %v", conversationID, err)
			}
		}(message.ConversationID)
	}

	uc.publisher.Publish(push.EventNewMessage, messageCopy)
}

// mergeConversation upserts a pushed conversation preview. Only the selected
// conversation's room delivers newMessage events, so background activity is
// reckoned here: a preview showing a newer message from another sender bumps
// that conversation's unread count. Re-delivered previews carry the same
// timestamp and change nothing.
func (uc *MessengerUseCase) mergeConversation(update *entity.Conversation) {
	if update == nil || update.ID == "" {
		return
	}

	uc.mu.Lock()
	existing := uc.findConversationLocked(update.ID)
	if existing == nil {
		update.UnreadCount = 0
		if uc.selectedID != update.ID && update.LastSenderID != "" && update.LastSenderID != uc.sess.UserID {
			update.UnreadCount = 1
		}
		uc.conversations = append(uc.conversations, update)
	} else {
		newActivity := update.LastMessageAt.After(existing.LastMessageAt) &&
			update.LastSenderID != "" && update.LastSenderID != uc.sess.UserID

		existing.CustomerName = update.CustomerName
		existing.StaffID = update.StaffID
		existing.StaffName = update.StaffName
		existing.LastMessage = update.LastMessage
		existing.LastSenderID = update.LastSenderID
		existing.LastMessageAt = update.LastMessageAt
		existing.UpdatedAt = update.UpdatedAt
		if uc.selectedID == update.ID {
			existing.UnreadCount = 0
		} else if newActivity {
			existing.UnreadCount++
		}
	}
	uc.sortConversationsLocked()
	uc.mu.Unlock()

	uc.publisher.Publish(push.EventConversationUpdate, uc.Conversations())
}

// Conversations returns the cached list, most recent activity first.
func (uc *MessengerUseCase) Conversations() []entity.Conversation {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]entity.Conversation, 0, len(uc.conversations))
	for _, conversation := range uc.conversations {
		out = append(out, *conversation)
	}
	return out
}

// Messages returns the cached history for a conversation, oldest first.
func (uc *MessengerUseCase) Messages(conversationID string) []entity.Message {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.copyMessagesLocked(conversationID)
}

// SelectedConversation returns the id of the open conversation, if any.
func (uc *MessengerUseCase) SelectedConversation() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.selectedID
}

// UnreadTotal sums the per-conversation unread counts for the sidebar badge.
func (uc *MessengerUseCase) UnreadTotal() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	total := 0
	for _, conversation := range uc.conversations {
		total += conversation.UnreadCount
	}
	return total
}

// Close releases every push subscription held by the messenger.
func (uc *MessengerUseCase) Close() {
	uc.mu.Lock()
	convSub := uc.convSub
	listSub := uc.listSub
	uc.convSub = nil
	uc.listSub = nil
	uc.selectedID = ""
	uc.mu.Unlock()

	if convSub != nil {
		convSub.Close()
	}
	if listSub != nil {
		listSub.Close()
	}
}

func (uc *MessengerUseCase) findConversationLocked(id string) *entity.Conversation {
	for _, conversation := range uc.conversations {
		if conversation.ID == id {
			return conversation
		}
	}
	return nil
}

func (uc *MessengerUseCase) sortConversationsLocked() {
	sort.SliceStable(uc.conversations, func(i, j int) bool {
		return uc.conversations[i].LastMessageAt.After(uc.conversations[j].LastMessageAt)
	})
}

func (uc *MessengerUseCase) copyMessagesLocked(conversationID string) []entity.Message {
	list := uc.messages[conversationID]
	out := make([]entity.Message, 0, len(list))
	for _, message := range list {
		out = append(out, *message)
	}
	return out
}

func dedupeByID(messages []*entity.Message) []*entity.Message {
	seen := make(map[string]bool, len(messages))
	out := messages[:0]
	for _, message := range messages {
		if message == nil || message.ID == "" || seen[message.ID] {
			continue
		}
		seen[message.ID] = true
		out = append(out, message)
	}
	return out
}
