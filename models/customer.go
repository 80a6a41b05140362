package models

import "time"

// Booking and order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Interaction types recorded on a customer.
const (
	InteractionCommand = "command"
	InteractionMessage = "message"
	InteractionReply   = "reply"
)

// Customer is an end user of the bot, scoped to one business.
type Customer struct {
	ID           string        `bson:"id" json:"id"`
	BusinessID   string        `bson:"businessId" json:"businessId"`
	TelegramID   int64         `bson:"telegramId" json:"telegramId"`
	ChatID       int64         `bson:"chatId" json:"chatId"`
	FirstName    string        `bson:"firstName" json:"firstName"`
	LastName     string        `bson:"lastName" json:"lastName"`
	Username     string        `bson:"username" json:"username"`
	Interactions []Interaction `bson:"interactions" json:"interactions"`
	Bookings     []Booking     `bson:"bookings" json:"bookings"`
	Orders       []Order       `bson:"orders" json:"orders"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName is the best human-readable name available.
func (c *Customer) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.Username != "":
		return "@" + c.Username
	default:
		return "Customer"
	}
}

// CustomerProfile is what the transport knows about the sender.
type CustomerProfile struct {
	TelegramID int64
	ChatID     int64
	FirstName  string
	LastName   string
	Username   string
}

type Interaction struct {
	Type      string    `bson:"type" json:"type"`
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type Booking struct {
	ID          string    `bson:"id" json:"id"`
	ServiceID   string    `bson:"serviceId" json:"serviceId"`
	ServiceName string    `bson:"serviceName" json:"serviceName"`
	Date        time.Time `bson:"date" json:"date"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

type OrderItem struct {
	ItemID    string  `bson:"itemId" json:"itemId"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
	LineTotal float64 `bson:"lineTotal" json:"lineTotal"`
}

type Order struct {
	ID        string      `bson:"id" json:"id"`
	Items     []OrderItem `bson:"items" json:"items"`
	Total     float64     `bson:"total" json:"total"`
	Status    string      `bson:"status" json:"status"`
	CreatedAt time.Time   `bson:"createdAt" json:"createdAt"`
}

// BookingView is a booking flattened with its customer, as the dashboard lists it.
type BookingView struct {
	Booking      `bson:",inline"`
	CustomerID   string `bson:"customerId" json:"customerId"`
	CustomerName string `bson:"customerName" json:"customerName"`
	ChatID       int64  `bson:"chatId" json:"chatId"`
}

// OrderView is an order flattened with its customer.
type OrderView struct {
	Order        `bson:",inline"`
	CustomerID   string `bson:"customerId" json:"customerId"`
	CustomerName string `bson:"customerName" json:"customerName"`
	ChatID       int64  `bson:"chatId" json:"chatId"`
}
