package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	businessRepo "cupbot/database/repository/business"
	customerRepo "cupbot/database/repository/customer"
	"cupbot/models"
)

// BusinessRepo is an in-memory BusinessRepository.
type BusinessRepo struct {
	mu         sync.Mutex
	businesses []*models.Business
	Err        error
}

func NewBusinessRepo(bs ...*models.Business) *BusinessRepo {
	return &BusinessRepo{businesses: bs}
}

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, b := range r.businesses {
		if b.ID == id {
			c := *b
			return &c, nil
		}
	}
	return nil, businessRepo.ErrNotFound
}

func (r *BusinessRepo) GetFirst(_ context.Context) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if len(r.businesses) == 0 {
		return nil, businessRepo.ErrNotFound
	}
	c := *r.businesses[0]
	return &c, nil
}

func (r *BusinessRepo) GetByEmail(_ context.Context, email string) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.businesses {
		if strings.EqualFold(b.OwnerEmail, email) {
			c := *b
			return &c, nil
		}
	}
	return nil, businessRepo.ErrNotFound
}

func (r *BusinessRepo) Create(_ context.Context, b *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.businesses {
		if strings.EqualFold(existing.OwnerEmail, b.OwnerEmail) {
			return businessRepo.ErrDuplicateEmail
		}
	}
	b.OwnerEmail = strings.ToLower(b.OwnerEmail)
	b.CreatedAt = time.Now()
	c := *b
	r.businesses = append(r.businesses, &c)
	return nil
}

func (r *BusinessRepo) Update(_ context.Context, b *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.businesses {
		if existing.ID == b.ID {
			c := *b
			r.businesses[i] = &c
			return nil
		}
	}
	return businessRepo.ErrNotFound
}

func (r *BusinessRepo) UpdateSettings(_ context.Context, id string, s models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.businesses {
		if existing.ID == id {
			existing.Settings = s
			return nil
		}
	}
	return businessRepo.ErrNotFound
}

// CustomerRepo is an in-memory CustomerRepository. Set AppendErr to make
// AppendBooking and AppendOrder fail.
type CustomerRepo struct {
	mu        sync.Mutex
	customers []*models.Customer
	seq       int
	AppendErr error
}

func NewCustomerRepo(cs ...*models.Customer) *CustomerRepo {
	return &CustomerRepo{customers: cs}
}

// Customers returns a snapshot of stored customers.
func (r *CustomerRepo) Customers() []models.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out
}

func (r *CustomerRepo) find(businessID string, telegramID int64) *models.Customer {
	for _, c := range r.customers {
		if c.BusinessID == businessID && c.TelegramID == telegramID {
			return c
		}
	}
	return nil
}

func (r *CustomerRepo) FindByTelegramID(_ context.Context, businessID string, telegramID int64) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.find(businessID, telegramID); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, customerRepo.ErrNotFound
}

func (r *CustomerRepo) UpsertInteraction(_ context.Context, businessID string, p models.CustomerProfile, in models.Interaction) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(businessID, p.TelegramID)
	if c == nil {
		r.seq++
		c = &models.Customer{
			ID:         fmt.Sprintf("cust-%d", r.seq),
			BusinessID: businessID,
			TelegramID: p.TelegramID,
			CreatedAt:  time.Now(),
		}
		r.customers = append(r.customers, c)
	}
	c.ChatID = p.ChatID
	c.FirstName, c.LastName, c.Username = p.FirstName, p.LastName, p.Username
	c.Interactions = append(c.Interactions, in)
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) RecentInteractions(_ context.Context, businessID string, telegramID int64, limit int) ([]models.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(businessID, telegramID)
	if c == nil || limit <= 0 {
		return nil, nil
	}
	from := len(c.Interactions) - limit
	if from < 0 {
		from = 0
	}
	return append([]models.Interaction(nil), c.Interactions[from:]...), nil
}

func (r *CustomerRepo) byID(id string) *models.Customer {
	for _, c := range r.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (r *CustomerRepo) AppendBooking(_ context.Context, customerID string, b models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AppendErr != nil {
		return r.AppendErr
	}
	c := r.byID(customerID)
	if c == nil {
		return customerRepo.ErrNotFound
	}
	c.Bookings = append(c.Bookings, b)
	return nil
}

func (r *CustomerRepo) AppendOrder(_ context.Context, customerID string, o models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AppendErr != nil {
		return r.AppendErr
	}
	c := r.byID(customerID)
	if c == nil {
		return customerRepo.ErrNotFound
	}
	c.Orders = append(c.Orders, o)
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, businessID, id string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byID(id)
	if c == nil || c.BusinessID != businessID {
		return nil, customerRepo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) List(_ context.Context, businessID string) ([]models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Customer{}
	for _, c := range r.customers {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *CustomerRepo) ListBookings(_ context.Context, businessID, status string) ([]models.BookingView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.BookingView{}
	for _, c := range r.customers {
		if c.BusinessID != businessID {
			continue
		}
		for _, b := range c.Bookings {
			if status == "" || b.Status == status {
				out = append(out, models.BookingView{Booking: b, CustomerID: c.ID, CustomerName: c.DisplayName(), ChatID: c.ChatID})
			}
		}
	}
	return out, nil
}

func (r *CustomerRepo) ListOrders(_ context.Context, businessID, status string) ([]models.OrderView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.OrderView{}
	for _, c := range r.customers {
		if c.BusinessID != businessID {
			continue
		}
		for _, o := range c.Orders {
			if status == "" || o.Status == status {
				out = append(out, models.OrderView{Order: o, CustomerID: c.ID, CustomerName: c.DisplayName(), ChatID: c.ChatID})
			}
		}
	}
	return out, nil
}

func (r *CustomerRepo) GetBooking(ctx context.Context, businessID, bookingID string) (*models.BookingView, error) {
	views, _ := r.ListBookings(ctx, businessID, "")
	for i := range views {
		if views[i].ID == bookingID {
			return &views[i], nil
		}
	}
	return nil, customerRepo.ErrNotFound
}

func (r *CustomerRepo) GetOrder(ctx context.Context, businessID, orderID string) (*models.OrderView, error) {
	views, _ := r.ListOrders(ctx, businessID, "")
	for i := range views {
		if views[i].ID == orderID {
			return &views[i], nil
		}
	}
	return nil, customerRepo.ErrNotFound
}

func (r *CustomerRepo) SetBookingStatus(_ context.Context, businessID, bookingID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.BusinessID != businessID {
			continue
		}
		for i := range c.Bookings {
			if c.Bookings[i].ID == bookingID && c.Bookings[i].Status == from {
				c.Bookings[i].Status = to
				return nil
			}
		}
	}
	return customerRepo.ErrNotFound
}

func (r *CustomerRepo) SetOrderStatus(_ context.Context, businessID, orderID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.BusinessID != businessID {
			continue
		}
		for i := range c.Orders {
			if c.Orders[i].ID == orderID && c.Orders[i].Status == from {
				c.Orders[i].Status = to
				return nil
			}
		}
	}
	return customerRepo.ErrNotFound
}

// Notifier records every notification it is asked to send.
type Notifier struct {
	mu             sync.Mutex
	Bookings       []models.Booking
	Orders         []models.Order
	BookingChanges []models.BookingView
	OrderChanges   []models.OrderView
}

func (n *Notifier) BookingCreated(_ context.Context, _ *models.Business, _ *models.Customer, b models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Bookings = append(n.Bookings, b)
	return nil
}

func (n *Notifier) OrderCreated(_ context.Context, _ *models.Business, _ *models.Customer, o models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Orders = append(n.Orders, o)
	return nil
}

func (n *Notifier) BookingStatusChanged(_ context.Context, _ *models.Business, b *models.BookingView) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.BookingChanges = append(n.BookingChanges, *b)
	return nil
}

func (n *Notifier) OrderStatusChanged(_ context.Context, _ *models.Business, o *models.OrderView) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.OrderChanges = append(n.OrderChanges, *o)
	return nil
}
