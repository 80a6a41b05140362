package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	customerRepo "cupbot/database/repository/customer"
	"cupbot/models"
	"cupbot/services/catalog"
	"cupbot/services/notification"
	"cupbot/services/session"
	"cupbot/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxQuantity is the largest quantity offered per line.
	MaxQuantity = 5

	msgUnavailable      = "Ordering is currently unavailable."
	msgSelectCategory   = "Please select a category:"
	msgItemNotFound     = "Item not found. Please try again."
	msgInvalidPrice     = "Invalid item price. Please try again."
	msgEmptyCart        = "Your cart is empty."
	msgCustomerNotFound = "Customer information not found. Please start over."
	msgCancelled        = "Order cancelled. How else can I help you?"
	msgNoOrders         = "You have no orders yet."
)

type DefaultOrderFlow struct {
	Catalog   Catalog
	Customers Customers
	Sessions  session.Store
	Notifier  notification.Notifier
	Clock     utils.Clock
	Logger    *zap.Logger
}

func NewOrderFlow(
	cat Catalog,
	customers Customers,
	sessions session.Store,
	notifier notification.Notifier,
	clock utils.Clock,
) *DefaultOrderFlow {
	if notifier == nil {
		notifier = notification.NoopNotifier{}
	}
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &DefaultOrderFlow{
		Catalog:   cat,
		Customers: customers,
		Sessions:  sessions,
		Notifier:  notifier,
		Clock:     clock,
		Logger:    utils.GetLogger(),
	}
}

func stepPtr(s models.Step) *models.Step { return &s }

func (f *DefaultOrderFlow) Start(ctx context.Context, in models.Inbound) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	if !b.Settings.Features.OrderingEnabled() || len(b.Menu.Categories) == 0 {
		return models.TextReply(msgUnavailable), nil
	}

	if _, err := f.Sessions.Update(ctx, in.UserID, models.SessionPatch{
		Step:  stepPtr(models.StepOrderCategory),
		Order: &models.OrderDraft{},
	}); err != nil {
		return models.Reply{}, err
	}
	return categoryPrompt(b), nil
}

func (f *DefaultOrderFlow) SelectCategory(ctx context.Context, in models.Inbound, index int) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	cat, err := f.Catalog.MenuCategoryAt(ctx, b.ID, index)
	if errors.Is(err, catalog.ErrCategoryNotFound) {
		if len(b.Menu.Categories) == 0 {
			return models.TextReply(msgUnavailable), nil
		}
		return categoryPrompt(b), nil
	}
	if err != nil {
		return models.Reply{}, err
	}

	if err := f.enterStep(ctx, in.UserID, models.StepOrderItem); err != nil {
		return models.Reply{}, err
	}

	rows := make([][]models.Button, 0, len(cat.Items)+2)
	for _, item := range cat.Items {
		label := fmt.Sprintf("%s - %s", item.Name, utils.FormatMoney(item.Price, b.Settings.Currency))
		rows = append(rows, []models.Button{models.ActionButton(label, models.SelectItem{ItemID: item.ID})})
	}
	rows = append(rows,
		[]models.Button{models.ActionButton("⬅️ Back to Categories", models.OrderMore{})},
		cancelRow(),
	)
	return models.Reply{Text: fmt.Sprintf("Please select an item from %s:", cat.Name), Inline: rows}, nil
}

func (f *DefaultOrderFlow) SelectItem(ctx context.Context, in models.Inbound, itemID string) (models.Reply, error) {
	item, err := f.Catalog.FindMenuItem(ctx, in.BusinessID, itemID)
	if errors.Is(err, catalog.ErrItemNotFound) {
		return models.TextReply(msgItemNotFound), nil
	}
	if err != nil {
		return models.Reply{}, err
	}

	if err := f.enterStep(ctx, in.UserID, models.StepOrderQuantity); err != nil {
		return models.Reply{}, err
	}
	return quantityPrompt(item), nil
}

// SelectQuantity adds a line to the cart. Repeat selections of an item are
// kept as separate lines.
func (f *DefaultOrderFlow) SelectQuantity(ctx context.Context, in models.Inbound, itemID string, qty int) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	item, err := f.Catalog.FindMenuItem(ctx, b.ID, itemID)
	if errors.Is(err, catalog.ErrItemNotFound) {
		return models.TextReply(msgItemNotFound), nil
	}
	if err != nil {
		return models.Reply{}, err
	}
	if qty < 1 || qty > MaxQuantity {
		return quantityPrompt(item), nil
	}
	if !utils.ValidPrice(item.Price) {
		f.Logger.Warn("menu item has invalid price", zap.String("businessID", b.ID), zap.String("itemID", item.ID))
		return models.TextReply(msgInvalidPrice), nil
	}

	sess, err := f.Sessions.Get(ctx, in.UserID)
	if err != nil {
		return models.Reply{}, err
	}
	draft := sess.Order.Clone()
	if draft == nil {
		draft = &models.OrderDraft{}
	}
	draft.Add(item.ID, item.Name, qty, item.Price)

	if _, err := f.Sessions.Update(ctx, in.UserID, models.SessionPatch{
		Step:  stepPtr(models.StepOrderCart),
		Order: draft,
	}); err != nil {
		return models.Reply{}, err
	}

	text := fmt.Sprintf("Added %dx %s to your cart.\nTotal: %s", qty, item.Name, utils.FormatMoney(draft.Total, b.Settings.Currency))
	return models.Reply{
		Text: text,
		Inline: [][]models.Button{
			{models.ActionButton("🛒 View Cart", models.ViewCart{})},
			{models.ActionButton("➕ Order More", models.OrderMore{})},
			{models.ActionButton("❌ Cancel Order", models.CancelOrder{})},
		},
	}, nil
}

// ViewCart recomputes the total from the lines; it never moves the session.
func (f *DefaultOrderFlow) ViewCart(ctx context.Context, in models.Inbound) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	sess, err := f.Sessions.Get(ctx, in.UserID)
	if err != nil {
		return models.Reply{}, err
	}
	if sess.Order.Empty() {
		return models.TextReply(msgEmptyCart), nil
	}

	draft := sess.Order.Clone()
	draft.Recompute()
	currency := b.Settings.Currency

	var sb strings.Builder
	sb.WriteString("🛒 Your Cart:\n\n")
	for _, l := range draft.Items {
		fmt.Fprintf(&sb, "%dx %s - %s\n", l.Quantity, l.Name, utils.FormatMoney(l.LineTotal, currency))
	}
	fmt.Fprintf(&sb, "\nTotal: %s", utils.FormatMoney(draft.Total, currency))

	return models.Reply{
		Text: sb.String(),
		Inline: [][]models.Button{
			{models.ActionButton("✅ Checkout", models.Checkout{})},
			{models.ActionButton("➕ Order More", models.OrderMore{})},
			{models.ActionButton("❌ Cancel Order", models.CancelOrder{})},
		},
	}, nil
}

func (f *DefaultOrderFlow) Checkout(ctx context.Context, in models.Inbound) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	sess, err := f.Sessions.Get(ctx, in.UserID)
	if err != nil {
		return models.Reply{}, err
	}
	if sess.Order.Empty() {
		return models.TextReply(msgEmptyCart), nil
	}

	draft := sess.Order.Clone()
	total := draft.Recompute()
	currency := b.Settings.Currency
	if minimum := b.Settings.Ordering.MinimumOrder; minimum > 0 && total < minimum {
		return models.TextReply(fmt.Sprintf("The minimum order is %s. Your total is %s. Please add more items.",
			utils.FormatMoney(minimum, currency), utils.FormatMoney(total, currency))), nil
	}

	cust, err := f.Customers.FindByTelegramID(ctx, b.ID, in.UserID)
	if errors.Is(err, customerRepo.ErrNotFound) {
		if err := f.Sessions.Clear(ctx, in.UserID); err != nil {
			return models.Reply{}, err
		}
		return models.TextReply(msgCustomerNotFound), nil
	}
	if err != nil {
		return models.Reply{}, err
	}

	o := models.Order{
		ID:        uuid.New().String(),
		Items:     make([]models.OrderItem, 0, len(draft.Items)),
		Total:     total,
		Status:    models.StatusPending,
		CreatedAt: f.Clock.Now(),
	}
	for _, l := range draft.Items {
		o.Items = append(o.Items, models.OrderItem{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	if err := f.Customers.AppendOrder(ctx, cust.ID, o); err != nil {
		return models.Reply{}, fmt.Errorf("failed to save order: %w", err)
	}

	if err := f.Sessions.Clear(ctx, in.UserID); err != nil {
		f.Logger.Warn("failed to clear session after order", zap.Int64("userID", in.UserID), zap.Error(err))
	}
	if err := f.Notifier.OrderCreated(ctx, b, cust, o); err != nil {
		f.Logger.Warn("failed to notify owner of order", zap.String("orderID", o.ID), zap.Error(err))
	}

	f.Logger.Info("order placed",
		zap.String("businessID", b.ID),
		zap.String("customerID", cust.ID),
		zap.Int("lines", len(o.Items)),
		zap.Float64("total", o.Total),
	)

	text := fmt.Sprintf("✅ Order placed successfully!\n\nTotal: %s\n\nWe will notify you when your order is confirmed.",
		utils.FormatMoney(total, currency))
	return models.Reply{
		Text:   text,
		Inline: [][]models.Button{{models.ActionButton("📋 View My Orders", models.ViewOrders{})}},
	}, nil
}

// More goes back to the category list, keeping the cart.
func (f *DefaultOrderFlow) More(ctx context.Context, in models.Inbound) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	if len(b.Menu.Categories) == 0 {
		return models.TextReply(msgUnavailable), nil
	}

	if err := f.enterStep(ctx, in.UserID, models.StepOrderCategory); err != nil {
		return models.Reply{}, err
	}
	return categoryPrompt(b), nil
}

// enterStep moves to an order step, starting an empty cart when the session
// holds none so a booking draft never survives into the order flow.
func (f *DefaultOrderFlow) enterStep(ctx context.Context, userID int64, step models.Step) error {
	sess, err := f.Sessions.Get(ctx, userID)
	if err != nil {
		return err
	}
	patch := models.StepPatch(step)
	if sess.Order == nil {
		patch.Order = &models.OrderDraft{}
	}
	_, err = f.Sessions.Update(ctx, userID, patch)
	return err
}

func (f *DefaultOrderFlow) Cancel(ctx context.Context, in models.Inbound) (models.Reply, error) {
	if err := f.Sessions.Clear(ctx, in.UserID); err != nil {
		return models.Reply{}, err
	}
	return models.MainMenuReply(msgCancelled), nil
}

func (f *DefaultOrderFlow) ViewOrders(ctx context.Context, in models.Inbound) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	cust, err := f.Customers.FindByTelegramID(ctx, b.ID, in.UserID)
	if errors.Is(err, customerRepo.ErrNotFound) {
		return models.TextReply(msgNoOrders), nil
	}
	if err != nil {
		return models.Reply{}, err
	}
	if len(cust.Orders) == 0 {
		return models.TextReply(msgNoOrders), nil
	}

	loc := catalog.Location(b)
	var sb strings.Builder
	sb.WriteString("📋 Your Orders:\n")
	for _, o := range cust.Orders {
		fmt.Fprintf(&sb, "\n%s - %s (%s)", o.CreatedAt.In(loc).Format("January 2, 2006"),
			utils.FormatMoney(o.Total, b.Settings.Currency), o.Status)
		for _, it := range o.Items {
			fmt.Fprintf(&sb, "\n  %dx %s", it.Quantity, it.Name)
		}
	}
	return models.TextReply(sb.String()), nil
}

func categoryPrompt(b *models.Business) models.Reply {
	rows := make([][]models.Button, 0, len(b.Menu.Categories)+1)
	for i, c := range b.Menu.Categories {
		rows = append(rows, []models.Button{models.ActionButton("📑 "+c.Name, models.SelectCategory{Index: i})})
	}
	rows = append(rows, cancelRow())
	return models.Reply{Text: msgSelectCategory, Inline: rows}
}

func quantityPrompt(item *models.MenuItem) models.Reply {
	row := make([]models.Button, 0, MaxQuantity)
	for n := 1; n <= MaxQuantity; n++ {
		row = append(row, models.ActionButton(fmt.Sprintf("%dx", n), models.SelectQuantity{ItemID: item.ID, Quantity: n}))
	}
	return models.Reply{
		Text:   fmt.Sprintf("How many %s would you like?", item.Name),
		Inline: [][]models.Button{row, cancelRow()},
	}
}

func cancelRow() []models.Button {
	return []models.Button{models.ActionButton("❌ Cancel", models.CancelOrder{})}
}
