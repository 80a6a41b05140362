package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cupbot/models"
	"cupbot/services/tasks"
	"cupbot/testutil"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sent struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{chatID, text})
	return nil
}

func newHandlers(status string) (*NotificationHandlers, *fakeSender) {
	biz := testutil.NewBusinessBuilder().WithSettings(func(s *models.Settings) {
		s.TimeZone = "America/New_York"
	}).Build()
	customers := testutil.NewCustomerRepo(&models.Customer{
		ID: "c1", BusinessID: biz.ID, TelegramID: 7, ChatID: 70,
		Bookings: []models.Booking{{
			ID: "bk-1", ServiceName: "Haircut", Status: status,
			Date: time.Date(2025, time.January, 6, 14, 0, 0, 0, time.UTC),
		}},
	})
	sender := &fakeSender{}
	return &NotificationHandlers{
		Sender:     sender,
		Customers:  customers,
		Businesses: testutil.NewBusinessRepo(biz),
		Logger:     zap.NewNop(),
	}, sender
}

func reminderTask(t *testing.T, bookingID string) *asynq.Task {
	task, _, err := tasks.NewReminderTask(models.ReminderPayload{
		BusinessID: "biz-1", BookingID: bookingID, ChatID: 70, Service: "Haircut",
	}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return task
}

func TestHandleMessage(t *testing.T) {
	h, sender := newHandlers(models.StatusConfirmed)
	task, err := tasks.NewMessageTask(models.MessagePayload{ChatID: 5, Text: "hello", Kind: "new_order"})
	require.NoError(t, err)

	require.NoError(t, h.HandleMessage(context.Background(), task))
	assert.Equal(t, []sent{{5, "hello"}}, sender.sent)

	sender.err = errors.New("telegram down")
	assert.Error(t, h.HandleMessage(context.Background(), task))

	bad := asynq.NewTask(tasks.TypeSendMessage, []byte("{"))
	assert.ErrorIs(t, h.HandleMessage(context.Background(), bad), asynq.SkipRetry)
}

func TestHandleReminder(t *testing.T) {
	t.Run("confirmed booking is reminded in business time", func(t *testing.T) {
		h, sender := newHandlers(models.StatusConfirmed)
		require.NoError(t, h.HandleReminder(context.Background(), reminderTask(t, "bk-1")))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, int64(70), sender.sent[0].chatID)
		assert.Equal(t, "⏰ Reminder: your Haircut booking is on January 6, 2025 at 9:00 AM.", sender.sent[0].text)
	})

	t.Run("cancelled booking is skipped", func(t *testing.T) {
		h, sender := newHandlers(models.StatusCancelled)
		require.NoError(t, h.HandleReminder(context.Background(), reminderTask(t, "bk-1")))
		assert.Empty(t, sender.sent)
	})

	t.Run("missing booking is skipped", func(t *testing.T) {
		h, sender := newHandlers(models.StatusConfirmed)
		require.NoError(t, h.HandleReminder(context.Background(), reminderTask(t, "gone")))
		assert.Empty(t, sender.sent)
	})
}

func TestMuxRoutesBothTypes(t *testing.T) {
	h, sender := newHandlers(models.StatusConfirmed)
	mux := h.Mux()

	msg, err := tasks.NewMessageTask(models.MessagePayload{ChatID: 1, Text: "hi"})
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), msg))
	require.NoError(t, mux.ProcessTask(context.Background(), reminderTask(t, "bk-1")))
	assert.Len(t, sender.sent, 2)
}
