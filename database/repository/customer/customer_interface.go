package customerRepo

import (
	"context"
	"errors"

	"cupbot/models"
)

// ErrNotFound is returned when no customer, booking or order matches.
var ErrNotFound = errors.New("not found")

// MaxInteractions caps the history kept per customer.
const MaxInteractions = 200

// CustomerRepository defines methods for customer data access. Bookings and
// orders are embedded in the customer document.
type CustomerRepository interface {
	// FindByTelegramID retrieves the customer a Telegram user maps to.
	FindByTelegramID(ctx context.Context, businessID string, telegramID int64) (*models.Customer, error)
	// UpsertInteraction records an interaction, creating the customer on first contact.
	UpsertInteraction(ctx context.Context, businessID string, profile models.CustomerProfile, in models.Interaction) (*models.Customer, error)
	// RecentInteractions returns up to limit most recent interactions, oldest first.
	RecentInteractions(ctx context.Context, businessID string, telegramID int64, limit int) ([]models.Interaction, error)
	// AppendBooking pushes a booking onto a customer.
	AppendBooking(ctx context.Context, customerID string, b models.Booking) error
	// AppendOrder pushes an order onto a customer.
	AppendOrder(ctx context.Context, customerID string, o models.Order) error

	// GetByID retrieves a customer of a business.
	GetByID(ctx context.Context, businessID, id string) (*models.Customer, error)
	// List retrieves every customer of a business.
	List(ctx context.Context, businessID string) ([]models.Customer, error)
	// ListBookings flattens bookings across customers. Empty status means all.
	ListBookings(ctx context.Context, businessID, status string) ([]models.BookingView, error)
	// ListOrders flattens orders across customers. Empty status means all.
	ListOrders(ctx context.Context, businessID, status string) ([]models.OrderView, error)
	// GetBooking retrieves one flattened booking.
	GetBooking(ctx context.Context, businessID, bookingID string) (*models.BookingView, error)
	// GetOrder retrieves one flattened order.
	GetOrder(ctx context.Context, businessID, orderID string) (*models.OrderView, error)
	// SetBookingStatus moves a booking from one status to another. It matches
	// only while the booking still has status from.
	SetBookingStatus(ctx context.Context, businessID, bookingID, from, to string) error
	// SetOrderStatus is SetBookingStatus for orders.
	SetOrderStatus(ctx context.Context, businessID, orderID, from, to string) error
}
