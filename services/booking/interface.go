package booking

import (
	"context"

	"cupbot/models"
)

// BookingFlow walks a user through service, date and time selection.
type BookingFlow interface {
	Start(ctx context.Context, in models.Inbound) (models.Reply, error)
	SelectCategory(ctx context.Context, in models.Inbound, index int) (models.Reply, error)
	SelectService(ctx context.Context, in models.Inbound, serviceID string) (models.Reply, error)
	SelectDate(ctx context.Context, in models.Inbound, date string) (models.Reply, error)
	SelectTime(ctx context.Context, in models.Inbound, hhmm string) (models.Reply, error)
	Cancel(ctx context.Context, in models.Inbound) (models.Reply, error)
	ViewBookings(ctx context.Context, in models.Inbound) (models.Reply, error)
}

// Catalog is the read side the flow needs.
type Catalog interface {
	Business(ctx context.Context, businessID string) (*models.Business, error)
	FindService(ctx context.Context, businessID, serviceID string) (*models.Service, error)
}

// Customers is the storage side the flow needs.
type Customers interface {
	FindByTelegramID(ctx context.Context, businessID string, telegramID int64) (*models.Customer, error)
	AppendBooking(ctx context.Context, customerID string, b models.Booking) error
}
