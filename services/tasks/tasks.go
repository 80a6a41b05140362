package tasks

import (
	"encoding/json"
	"time"

	"cupbot/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendMessage  = "message:send"
	TypeSendReminder = "reminder:send"
)

// NewMessageTask wraps a chat message for the worker.
func NewMessageTask(payload models.MessagePayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendMessage, b, asynq.MaxRetry(5)), nil
}

// NewReminderTask schedules a booking reminder. The task id is derived from the
// booking so re-confirming does not queue a duplicate.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// ParseMessage decodes a message task payload.
func ParseMessage(t *asynq.Task) (models.MessagePayload, error) {
	var p models.MessagePayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}

// ParseReminder decodes a reminder task payload.
func ParseReminder(t *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}
