package order

import (
	"context"

	"cupbot/models"
)

// OrderFlow walks a user through category, item and quantity selection into
// a cart, then checkout.
type OrderFlow interface {
	Start(ctx context.Context, in models.Inbound) (models.Reply, error)
	SelectCategory(ctx context.Context, in models.Inbound, index int) (models.Reply, error)
	SelectItem(ctx context.Context, in models.Inbound, itemID string) (models.Reply, error)
	SelectQuantity(ctx context.Context, in models.Inbound, itemID string, qty int) (models.Reply, error)
	ViewCart(ctx context.Context, in models.Inbound) (models.Reply, error)
	Checkout(ctx context.Context, in models.Inbound) (models.Reply, error)
	More(ctx context.Context, in models.Inbound) (models.Reply, error)
	Cancel(ctx context.Context, in models.Inbound) (models.Reply, error)
	ViewOrders(ctx context.Context, in models.Inbound) (models.Reply, error)
}

type Catalog interface {
	Business(ctx context.Context, businessID string) (*models.Business, error)
	MenuCategoryAt(ctx context.Context, businessID string, index int) (*models.MenuCategory, error)
	FindMenuItem(ctx context.Context, businessID, itemID string) (*models.MenuItem, error)
}

type Customers interface {
	FindByTelegramID(ctx context.Context, businessID string, telegramID int64) (*models.Customer, error)
	AppendOrder(ctx context.Context, customerID string, o models.Order) error
}
