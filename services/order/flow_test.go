package order_test

import (
	"context"
	"math"
	"testing"

	"cupbot/models"
	"cupbot/services/catalog"
	"cupbot/services/order"
	"cupbot/services/session"
	"cupbot/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = int64(99)

type fixture struct {
	flow      *order.DefaultOrderFlow
	sessions  *session.MemoryStore
	customers *testutil.CustomerRepo
	notifier  *testutil.Notifier
	in        models.Inbound
}

func newFixture(t *testing.T, biz *models.Business) *fixture {
	t.Helper()
	customers := testutil.NewCustomerRepo()
	_, err := customers.UpsertInteraction(context.Background(), biz.ID, testutil.Profile(userID),
		models.Interaction{Type: models.InteractionCommand, Message: "/order"})
	require.NoError(t, err)

	f := &fixture{
		sessions:  session.NewMemoryStore(),
		customers: customers,
		notifier:  &testutil.Notifier{},
		in:        models.Inbound{BusinessID: biz.ID, UserID: userID, ChatID: userID},
	}
	f.flow = order.NewOrderFlow(
		catalog.NewLookup(testutil.NewBusinessRepo(biz)),
		customers,
		f.sessions,
		f.notifier,
		testutil.FixedClock{T: testutil.SundayMorning},
	)
	return f
}

func labels(r models.Reply) []string {
	var out []string
	for _, row := range r.Inline {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

func (f *fixture) session(t *testing.T) *models.Session {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	return s
}

func TestOrderFlow_CartAndCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.Start(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, "Please select a category:", r.Text)
	assert.Equal(t, []string{"📑 Coffee", "📑 Pastry", "❌ Cancel"}, labels(r))
	assert.Equal(t, models.StepOrderCategory, f.session(t).Step)

	r, err = f.flow.SelectCategory(ctx, f.in, 0)
	require.NoError(t, err)
	assert.Equal(t, "Please select an item from Coffee:", r.Text)
	assert.Equal(t, []string{"Flat White - $10.00", "Espresso - $5.00", "⬅️ Back to Categories", "❌ Cancel"}, labels(r))

	r, err = f.flow.SelectItem(ctx, f.in, "item-a")
	require.NoError(t, err)
	assert.Equal(t, "How many Flat White would you like?", r.Text)
	require.Len(t, r.Inline[0], order.MaxQuantity)
	assert.Equal(t, "order_quantity_item-a_2", r.Inline[0][1].Data)

	r, err = f.flow.SelectQuantity(ctx, f.in, "item-a", 2)
	require.NoError(t, err)
	assert.Equal(t, "Added 2x Flat White to your cart.\nTotal: $20.00", r.Text)
	assert.Equal(t, models.StepOrderCart, f.session(t).Step)

	_, err = f.flow.More(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, models.StepOrderCategory, f.session(t).Step)
	assert.Len(t, f.session(t).Order.Items, 1)

	_, err = f.flow.SelectQuantity(ctx, f.in, "item-b", 1)
	require.NoError(t, err)

	want := "🛒 Your Cart:\n\n2x Flat White - $20.00\n1x Espresso - $5.00\n\nTotal: $25.00"
	first, err := f.flow.ViewCart(ctx, f.in)
	require.NoError(t, err)
	second, err := f.flow.ViewCart(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, want, first.Text)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("viewing the cart twice differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, 25.0, f.session(t).Order.Total)

	r, err = f.flow.Checkout(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, "✅ Order placed successfully!\n\nTotal: $25.00\n\nWe will notify you when your order is confirmed.", r.Text)

	orders := f.customers.Customers()[0].Orders
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusPending, orders[0].Status)
	assert.Equal(t, 25.0, orders[0].Total)
	assert.Equal(t, testutil.SundayMorning, orders[0].CreatedAt)
	assert.Equal(t, []models.OrderItem{
		{ItemID: "item-a", Name: "Flat White", Quantity: 2, Price: 10, LineTotal: 20},
		{ItemID: "item-b", Name: "Espresso", Quantity: 1, Price: 5, LineTotal: 5},
	}, orders[0].Items)

	assert.Equal(t, models.StepIdle, f.session(t).Step)
	assert.Len(t, f.notifier.Orders, 1)
}

func TestOrderFlow_RepeatedItemKeepsSeparateLines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	_, err := f.flow.Start(ctx, f.in)
	require.NoError(t, err)
	_, err = f.flow.SelectQuantity(ctx, f.in, "item-c", 1)
	require.NoError(t, err)
	_, err = f.flow.SelectQuantity(ctx, f.in, "item-c", 2)
	require.NoError(t, err)

	s := f.session(t)
	require.Len(t, s.Order.Items, 2)
	assert.Equal(t, 10.5, s.Order.Total)
}

func TestOrderFlow_QuantityOutOfRangeReprompts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	_, err := f.flow.SelectItem(ctx, f.in, "item-a")
	require.NoError(t, err)

	for _, qty := range []int{0, 6, -1} {
		r, err := f.flow.SelectQuantity(ctx, f.in, "item-a", qty)
		require.NoError(t, err)
		assert.Equal(t, "How many Flat White would you like?", r.Text)
	}
	assert.Equal(t, models.StepOrderQuantity, f.session(t).Step)
}

func TestOrderFlow_InvalidPrice(t *testing.T) {
	ctx := context.Background()
	for name, price := range map[string]float64{"negative": -1, "nan": math.NaN(), "inf": math.Inf(1)} {
		t.Run(name, func(t *testing.T) {
			biz := testutil.NewBusinessBuilder().WithMenu(models.MenuCategory{
				Name:  "Broken",
				Items: []models.MenuItem{{ID: "bad", Name: "Mystery", Price: price}},
			}).Build()
			f := newFixture(t, biz)

			_, err := f.flow.SelectItem(ctx, f.in, "bad")
			require.NoError(t, err)
			r, err := f.flow.SelectQuantity(ctx, f.in, "bad", 1)
			require.NoError(t, err)
			assert.Equal(t, "Invalid item price. Please try again.", r.Text)
			assert.Equal(t, models.StepOrderQuantity, f.session(t).Step)
		})
	}
}

func TestOrderFlow_EmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.ViewCart(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, "Your cart is empty.", r.Text)

	r, err = f.flow.Checkout(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, "Your cart is empty.", r.Text)
	assert.Empty(t, f.customers.Customers()[0].Orders)
}

func TestOrderFlow_MinimumOrder(t *testing.T) {
	ctx := context.Background()
	biz := testutil.NewBusinessBuilder().WithSettings(func(s *models.Settings) {
		s.Ordering.MinimumOrder = 15
	}).Build()
	f := newFixture(t, biz)

	_, err := f.flow.SelectQuantity(ctx, f.in, "item-b", 1)
	require.NoError(t, err)
	r, err := f.flow.Checkout(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, "The minimum order is $15.00. Your total is $5.00. Please add more items.", r.Text)
	assert.Equal(t, models.StepOrderCart, f.session(t).Step)
}

func TestOrderFlow_CancelFromEveryStep(t *testing.T) {
	ctx := context.Background()
	steps := []struct {
		step models.Step
		run  func(f *fixture) error
	}{
		{models.StepOrderCategory, func(f *fixture) error { _, err := f.flow.Start(ctx, f.in); return err }},
		{models.StepOrderItem, func(f *fixture) error { _, err := f.flow.SelectCategory(ctx, f.in, 1); return err }},
		{models.StepOrderQuantity, func(f *fixture) error { _, err := f.flow.SelectItem(ctx, f.in, "item-c"); return err }},
		{models.StepOrderCart, func(f *fixture) error { _, err := f.flow.SelectQuantity(ctx, f.in, "item-c", 3); return err }},
	}
	for _, tt := range steps {
		t.Run(string(tt.step), func(t *testing.T) {
			f := newFixture(t, testutil.NewBusinessBuilder().Build())
			require.NoError(t, tt.run(f))
			require.Equal(t, tt.step, f.session(t).Step)

			r, err := f.flow.Cancel(ctx, f.in)
			require.NoError(t, err)
			assert.Equal(t, "Order cancelled. How else can I help you?", r.Text)

			s := f.session(t)
			assert.Equal(t, models.StepIdle, s.Step)
			assert.Nil(t, s.Order)
		})
	}
}

func TestOrderFlow_Unavailable(t *testing.T) {
	biz := testutil.NewBusinessBuilder().WithMenu().Build()
	f := newFixture(t, biz)

	r, err := f.flow.Start(context.Background(), f.in)
	require.NoError(t, err)
	assert.Equal(t, "Ordering is currently unavailable.", r.Text)
	assert.Equal(t, models.StepIdle, f.session(t).Step)
}

func TestOrderFlow_UnknownItem(t *testing.T) {
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.SelectItem(context.Background(), f.in, "item-z")
	require.NoError(t, err)
	assert.Equal(t, "Item not found. Please try again.", r.Text)
}

func TestOrderFlow_StaleCategoryIndexReprompts(t *testing.T) {
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.SelectCategory(context.Background(), f.in, 5)
	require.NoError(t, err)
	assert.Equal(t, "Please select a category:", r.Text)
}

func TestOrderFlow_OrderButtonsReplaceBookingDraft(t *testing.T) {
	ctx := context.Background()
	step := models.StepBookingTime
	bookingDraft := models.SessionPatch{
		Step:    &step,
		Booking: &models.BookingDraft{ServiceID: "svc-cut", Date: "2025-01-06"},
	}

	tests := []struct {
		name  string
		press func(f *fixture) error
		want  models.Step
	}{
		{"category", func(f *fixture) error { _, err := f.flow.SelectCategory(ctx, f.in, 0); return err }, models.StepOrderItem},
		{"item", func(f *fixture) error { _, err := f.flow.SelectItem(ctx, f.in, "item-a"); return err }, models.StepOrderQuantity},
		{"more", func(f *fixture) error { _, err := f.flow.More(ctx, f.in); return err }, models.StepOrderCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testutil.NewBusinessBuilder().Build())
			_, err := f.sessions.Update(ctx, userID, bookingDraft)
			require.NoError(t, err)

			require.NoError(t, tt.press(f))
			s := f.session(t)
			assert.Equal(t, tt.want, s.Step)
			assert.Nil(t, s.Booking)
			assert.NotNil(t, s.Order)
		})
	}
}

func TestOrderFlow_ViewOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.ViewOrders(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, "You have no orders yet.", r.Text)

	_, err = f.flow.SelectQuantity(ctx, f.in, "item-a", 1)
	require.NoError(t, err)
	_, err = f.flow.Checkout(ctx, f.in)
	require.NoError(t, err)

	r, err = f.flow.ViewOrders(ctx, f.in)
	require.NoError(t, err)
	assert.Contains(t, r.Text, "January 5, 2025 - $10.00 (pending)")
	assert.Contains(t, r.Text, "1x Flat White")
}
