package push

import (
	"encoding/json"

	"dentsync/internal/domain/entity"
)

// Push event vocabulary emitted by the clinic socket server.
const (
	EventNewMessage         = "newMessage"
	EventNewNotification    = "newNotification"
	EventNewBill            = "newBill"
	EventBillUpdate         = "billUpdate"
	EventBankTransferPaid   = "bankTransferPaid"
	EventConversationUpdate = "conversationUpdate"
)

// Room join/leave verbs the client emits.
const (
	verbJoinConversation      = "joinConversation"
	verbLeaveConversation     = "leaveConversation"
	verbJoinNotificationRoom  = "joinNotificationRoom"
	verbLeaveNotificationRoom = "leaveNotificationRoom"
	verbJoinBillRoom          = "joinBillRoom"
	verbLeaveBillRoom         = "leaveBillRoom"
)

// Frame is the wire format shared with the socket server: one JSON object per
// websocket text message.
type Frame struct {
	Event string          `json:"event"`
	Room  string          `json:"room,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is a received push event, scoped to the room it was delivered on.
type Event struct {
	Name string
	Room string
	Data json.RawMessage
}

func (e Event) Message() (*entity.Message, error) {
	var message entity.Message
	if err := json.Unmarshal(e.Data, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (e Event) Notification() (*entity.Notification, error) {
	var notification entity.Notification
	if err := json.Unmarshal(e.Data, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (e Event) Bill() (*entity.Bill, error) {
	var bill entity.Bill
	if err := json.Unmarshal(e.Data, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (e Event) Conversation() (*entity.Conversation, error) {
	var conversation entity.Conversation
	if err := json.Unmarshal(e.Data, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}
