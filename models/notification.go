package models

import "time"

// MessagePayload is the body of a "message:send" task.
type MessagePayload struct {
	ChatID int64  `json:"chatId"`
	Text   string `json:"text"`
	Kind   string `json:"kind"` // e.g. "new_booking", "order_status"
}

// ReminderPayload is the body of a "reminder:send" task. The worker re-reads the
// booking before sending so a cancelled booking is not reminded.
type ReminderPayload struct {
	BusinessID string    `json:"businessId"`
	BookingID  string    `json:"bookingId"`
	ChatID     int64     `json:"chatId"`
	Service    string    `json:"service"`
	FireDate   time.Time `json:"fireDate"`
}
