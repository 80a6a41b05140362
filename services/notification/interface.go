package notification

import (
	"context"

	"cupbot/models"
)

// Notifier tells owners about new bookings and orders, and customers about
// status changes. Implementations must not block on delivery.
type Notifier interface {
	BookingCreated(ctx context.Context, b *models.Business, c *models.Customer, booking models.Booking) error
	OrderCreated(ctx context.Context, b *models.Business, c *models.Customer, order models.Order) error
	BookingStatusChanged(ctx context.Context, b *models.Business, booking *models.BookingView) error
	OrderStatusChanged(ctx context.Context, b *models.Business, order *models.OrderView) error
}

// Sender delivers a plain text message to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// NoopNotifier drops everything. Used when notifications are disabled.
type NoopNotifier struct{}

func (NoopNotifier) BookingCreated(context.Context, *models.Business, *models.Customer, models.Booking) error {
	return nil
}

func (NoopNotifier) OrderCreated(context.Context, *models.Business, *models.Customer, models.Order) error {
	return nil
}

func (NoopNotifier) BookingStatusChanged(context.Context, *models.Business, *models.BookingView) error {
	return nil
}

func (NoopNotifier) OrderStatusChanged(context.Context, *models.Business, *models.OrderView) error {
	return nil
}
