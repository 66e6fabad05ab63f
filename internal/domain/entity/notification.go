package entity

import "time"

const (
	NotificationNewAppointment      = "new-appointment"
	NotificationAppointmentAccepted = "appointment-confirmed"
	NotificationAppointmentRejected = "appointment-rejected"
	NotificationNewBill             = "new-bill"
	NotificationOther               = "other"
)

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "new-appointment", "appointment-confirmed", "appointment-rejected", "new-bill", "other"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
