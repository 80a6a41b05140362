package customersvc

import (
	"context"
	"errors"

	businessRepo "cupbot/database/repository/business"
	customerRepo "cupbot/database/repository/customer"
	"cupbot/models"
	"cupbot/services/notification"
	"cupbot/utils"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// StatusAll lists every status in ListBookings and ListOrders.
const StatusAll = "all"

// CustomerService is the owner-facing view of customers and their bookings
// and orders.
type CustomerService interface {
	ListCustomers(ctx context.Context, businessID string) ([]models.Customer, error)
	GetCustomer(ctx context.Context, businessID, customerID string) (*models.Customer, error)
	ListBookings(ctx context.Context, businessID, status string) ([]models.BookingView, error)
	ListOrders(ctx context.Context, businessID, status string) ([]models.OrderView, error)
	UpdateBookingStatus(ctx context.Context, businessID, bookingID, status string) (*models.BookingView, error)
	UpdateOrderStatus(ctx context.Context, businessID, orderID, status string) (*models.OrderView, error)
	Analytics(ctx context.Context, businessID string) (*models.Analytics, error)
}

type DefaultCustomerService struct {
	Customers  customerRepo.CustomerRepository
	Businesses businessRepo.BusinessRepository
	Notifier   notification.Notifier
	Clock      utils.Clock
}

func NewCustomerService(customers customerRepo.CustomerRepository, businesses businessRepo.BusinessRepository, notifier notification.Notifier, clock utils.Clock) *DefaultCustomerService {
	if notifier == nil {
		notifier = notification.NoopNotifier{}
	}
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &DefaultCustomerService{Customers: customers, Businesses: businesses, Notifier: notifier, Clock: clock}
}
