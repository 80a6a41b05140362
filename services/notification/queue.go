package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cupbot/models"
	"cupbot/services/catalog"
	"cupbot/services/tasks"
	"cupbot/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier turns events into asynq tasks processed by the worker.
type QueueNotifier struct {
	queue        Enqueuer
	reminderLead time.Duration
	clock        utils.Clock
	logger       *zap.Logger
}

func NewQueueNotifier(queue Enqueuer, reminderLead time.Duration, clock utils.Clock) *QueueNotifier {
	return &QueueNotifier{
		queue:        queue,
		reminderLead: reminderLead,
		clock:        clock,
		logger:       utils.GetLogger(),
	}
}

const (
	dateLayout = "January 2, 2006"
	timeLayout = "3:04 PM"
)

func (n *QueueNotifier) send(ctx context.Context, chatID int64, kind, text string) error {
	task, err := tasks.NewMessageTask(models.MessagePayload{ChatID: chatID, Text: text, Kind: kind})
	if err != nil {
		return fmt.Errorf("failed to build %s task: %w", kind, err)
	}
	if _, err := n.queue.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}
	n.logger.Debug("notification queued", zap.String("kind", kind), zap.Int64("chatID", chatID))
	return nil
}

// ownerChat is the owner's Telegram chat, or 0 when alerts of this kind are off.
func ownerChat(b *models.Business, enabled bool) int64 {
	if !b.Settings.Notifications.Telegram || !enabled {
		return 0
	}
	return b.Settings.Profile.TelegramID
}

func (n *QueueNotifier) BookingCreated(ctx context.Context, b *models.Business, c *models.Customer, booking models.Booking) error {
	chatID := ownerChat(b, b.Settings.Notifications.NewBooking)
	if chatID == 0 {
		return nil
	}
	at := booking.Date.In(catalog.Location(b))
	text := fmt.Sprintf("📅 New booking\n\nCustomer: %s\nService: %s\nDate: %s\nTime: %s",
		c.DisplayName(), booking.ServiceName, at.Format(dateLayout), at.Format(timeLayout))
	return n.send(ctx, chatID, "new_booking", text)
}

func (n *QueueNotifier) OrderCreated(ctx context.Context, b *models.Business, c *models.Customer, order models.Order) error {
	chatID := ownerChat(b, b.Settings.Notifications.NewOrder)
	if chatID == 0 {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛍️ New order\n\nCustomer: %s\n", c.DisplayName())
	for _, item := range order.Items {
		fmt.Fprintf(&sb, "%dx %s - %s\n", item.Quantity, item.Name, utils.FormatMoney(item.LineTotal, b.Settings.Currency))
	}
	fmt.Fprintf(&sb, "\nTotal: %s", utils.FormatMoney(order.Total, b.Settings.Currency))
	return n.send(ctx, chatID, "new_order", sb.String())
}

func (n *QueueNotifier) BookingStatusChanged(ctx context.Context, b *models.Business, booking *models.BookingView) error {
	if !b.Settings.Notifications.OrderStatus || booking.ChatID == 0 {
		return nil
	}
	at := booking.Date.In(catalog.Location(b))
	text := fmt.Sprintf("Your booking for %s on %s at %s is now %s.",
		booking.ServiceName, at.Format(dateLayout), at.Format(timeLayout), booking.Status)
	if err := n.send(ctx, booking.ChatID, "booking_status", text); err != nil {
		return err
	}

	if booking.Status == models.StatusConfirmed && b.Settings.Notifications.Reminders {
		return n.scheduleReminder(ctx, b, booking)
	}
	return nil
}

func (n *QueueNotifier) scheduleReminder(ctx context.Context, b *models.Business, booking *models.BookingView) error {
	fireAt := booking.Date.Add(-n.reminderLead)
	if !fireAt.After(n.clock.Now()) {
		return nil
	}
	task, opts, err := tasks.NewReminderTask(models.ReminderPayload{
		BusinessID: b.ID,
		BookingID:  booking.ID,
		ChatID:     booking.ChatID,
		Service:    booking.ServiceName,
		FireDate:   booking.Date,
	}, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := n.queue.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	return nil
}

func (n *QueueNotifier) OrderStatusChanged(ctx context.Context, b *models.Business, order *models.OrderView) error {
	if !b.Settings.Notifications.OrderStatus || order.ChatID == 0 {
		return nil
	}
	text := fmt.Sprintf("Your order of %s is now %s.", utils.FormatMoney(order.Total, b.Settings.Currency), order.Status)
	return n.send(ctx, order.ChatID, "order_status", text)
}
