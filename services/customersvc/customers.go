package customersvc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	customerRepo "cupbot/database/repository/customer"
	"cupbot/models"
	"cupbot/utils"

	"go.uber.org/zap"
)

// transitions lists the statuses each status may move to.
var transitions = map[string][]string{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
}

// CanTransition reports whether a booking or order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func knownStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted:
		return true
	}
	return false
}

// statusFilter maps the query parameter onto a repository filter. Empty means
// pending, "all" means no filter.
func statusFilter(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch {
	case status == "":
		return models.StatusPending, nil
	case status == StatusAll:
		return "", nil
	case knownStatus(status):
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

func notFound(err error) error {
	if errors.Is(err, customerRepo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *DefaultCustomerService) ListCustomers(ctx context.Context, businessID string) ([]models.Customer, error) {
	customers, err := s.Customers.List(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *DefaultCustomerService) GetCustomer(ctx context.Context, businessID, customerID string) (*models.Customer, error) {
	c, err := s.Customers.GetByID(ctx, businessID, customerID)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *DefaultCustomerService) ListBookings(ctx context.Context, businessID, status string) ([]models.BookingView, error) {
	filter, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	views, err := s.Customers.ListBookings(ctx, businessID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Date.Before(views[j].Date) })
	return views, nil
}

func (s *DefaultCustomerService) ListOrders(ctx context.Context, businessID, status string) ([]models.OrderView, error) {
	filter, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	views, err := s.Customers.ListOrders(ctx, businessID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return views, nil
}

func (s *DefaultCustomerService) UpdateBookingStatus(ctx context.Context, businessID, bookingID, status string) (*models.BookingView, error) {
	if !knownStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	booking, err := s.Customers.GetBooking(ctx, businessID, bookingID)
	if err != nil {
		return nil, notFound(err)
	}
	if !CanTransition(booking.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, booking.Status, status)
	}
	// The repository matches on the old status, so a concurrent change
	// surfaces as not found rather than being overwritten.
	if err := s.Customers.SetBookingStatus(ctx, businessID, bookingID, booking.Status, status); err != nil {
		if errors.Is(err, customerRepo.ErrNotFound) {
			return nil, fmt.Errorf("%w: booking changed concurrently", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	booking.Status = status
	s.notify(ctx, businessID, func(b *models.Business) error {
		return s.Notifier.BookingStatusChanged(ctx, b, booking)
	})
	return booking, nil
}

func (s *DefaultCustomerService) UpdateOrderStatus(ctx context.Context, businessID, orderID, status string) (*models.OrderView, error) {
	if !knownStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	order, err := s.Customers.GetOrder(ctx, businessID, orderID)
	if err != nil {
		return nil, notFound(err)
	}
	if !CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}
	if err := s.Customers.SetOrderStatus(ctx, businessID, orderID, order.Status, status); err != nil {
		if errors.Is(err, customerRepo.ErrNotFound) {
			return nil, fmt.Errorf("%w: order changed concurrently", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	order.Status = status
	s.notify(ctx, businessID, func(b *models.Business) error {
		return s.Notifier.OrderStatusChanged(ctx, b, order)
	})
	return order, nil
}

// notify runs send with the business loaded. Failures are logged only; the
// status change has already been stored.
func (s *DefaultCustomerService) notify(ctx context.Context, businessID string, send func(*models.Business) error) {
	logger := utils.GetLogger()
	b, err := s.Businesses.GetByID(ctx, businessID)
	if err != nil {
		logger.Warn("status notification skipped", zap.String("businessID", businessID), zap.Error(err))
		return
	}
	if err := send(b); err != nil {
		logger.Error("failed to send status notification", zap.String("businessID", businessID), zap.Error(err))
	}
}
