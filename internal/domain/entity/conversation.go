package entity

import "time"

type Conversation struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	StaffID       string    `json:"staff_id,omitempty"`
	StaffName     string    `json:"staff_name,omitempty"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastSenderID  string    `json:"last_sender_id,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"` // local approximation; the server owns the truth
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
