package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cupbot/models"
	"cupbot/services/booking"
	"cupbot/services/catalog"
	"cupbot/services/session"
	"cupbot/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = int64(42)

type fixture struct {
	flow      *booking.DefaultBookingFlow
	sessions  *session.MemoryStore
	customers *testutil.CustomerRepo
	notifier  *testutil.Notifier
	in        models.Inbound
}

func newFixture(t *testing.T, biz *models.Business) *fixture {
	t.Helper()
	customers := testutil.NewCustomerRepo()
	_, err := customers.UpsertInteraction(context.Background(), biz.ID, testutil.Profile(userID),
		models.Interaction{Type: models.InteractionCommand, Message: "/start"})
	require.NoError(t, err)

	f := &fixture{
		sessions:  session.NewMemoryStore(),
		customers: customers,
		notifier:  &testutil.Notifier{},
		in:        models.Inbound{BusinessID: biz.ID, UserID: userID, ChatID: userID, Profile: testutil.Profile(userID)},
	}
	f.flow = booking.NewBookingFlow(
		catalog.NewLookup(testutil.NewBusinessRepo(biz)),
		customers,
		f.sessions,
		f.notifier,
		testutil.FixedClock{T: testutil.SundayMorning},
	)
	return f
}

func buttons(r models.Reply) []models.Button {
	var out []models.Button
	for _, row := range r.Inline {
		out = append(out, row...)
	}
	return out
}

func labels(r models.Reply) []string {
	var out []string
	for _, b := range buttons(r) {
		out = append(out, b.Text)
	}
	return out
}

func datas(r models.Reply) []string {
	var out []string
	for _, b := range buttons(r) {
		out = append(out, b.Data)
	}
	return out
}

func (f *fixture) step(t *testing.T) models.Step {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	return s.Step
}

func TestBookingFlow_HappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.Start(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, "Please select a service to book:", r.Text)
	assert.Equal(t, []string{
		"📑 Hair", "Haircut - $25.00", "Shave - $15.00",
		"📑 Other", "Consultation - $0.00",
		"❌ Cancel",
	}, labels(r))
	assert.Equal(t, models.StepBookingService, f.step(t))

	r, err = f.flow.SelectService(ctx, f.in, "svc-cut")
	require.NoError(t, err)
	assert.Equal(t, "You selected: Haircut\nPlease choose a date:", r.Text)
	require.Len(t, buttons(r), booking.DaysOffered+1)
	assert.Equal(t, models.Button{Text: "Mon, Jan 6", Data: "booking_date_2025-01-06"}, buttons(r)[0])
	assert.Equal(t, models.StepBookingDate, f.step(t))

	r, err = f.flow.SelectDate(ctx, f.in, "2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, "Please select a time:", r.Text)
	assert.Equal(t, []string{
		"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "❌ Cancel",
	}, labels(r))
	assert.Equal(t, []string{
		"booking_time_09:00", "booking_time_10:00", "booking_time_11:00", "booking_time_12:00",
		"booking_time_13:00", "booking_time_14:00", "booking_time_15:00", "booking_time_16:00", "booking_cancel",
	}, datas(r))
	assert.Equal(t, models.StepBookingTime, f.step(t))

	r, err = f.flow.SelectTime(ctx, f.in, "14:00")
	require.NoError(t, err)
	assert.Contains(t, r.Text, "Booking confirmed")
	assert.Contains(t, r.Text, "January 6, 2025")
	assert.Contains(t, r.Text, "2:00 PM")
	assert.Equal(t, []string{"view_bookings"}, datas(r))

	stored := f.customers.Customers()[0].Bookings
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Date.Equal(time.Date(2025, 1, 6, 14, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.StatusPending, stored[0].Status)
	assert.Equal(t, "Haircut", stored[0].ServiceName)
	assert.NotEmpty(t, stored[0].ID)

	assert.Equal(t, models.StepIdle, f.step(t))
	assert.Len(t, f.notifier.Bookings, 1)
}

func TestBookingFlow_ClosedDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	_, err := f.flow.SelectService(ctx, f.in, "svc-cut")
	require.NoError(t, err)

	// 2025-01-11 is a Saturday.
	r, err := f.flow.SelectDate(ctx, f.in, "2025-01-11")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, we are closed on this day. Please select another date.", r.Text)
	assert.Equal(t, models.StepBookingDate, f.step(t))
}

func TestBookingFlow_DateOutsideWindowReprompts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	_, err := f.flow.SelectService(ctx, f.in, "svc-cut")
	require.NoError(t, err)

	r, err := f.flow.SelectDate(ctx, f.in, "2024-12-30")
	require.NoError(t, err)
	assert.Equal(t, "Please choose a date:", r.Text)
	assert.Equal(t, models.StepBookingDate, f.step(t))
}

func TestBookingFlow_MinNoticeDropsEarlySlots(t *testing.T) {
	ctx := context.Background()
	biz := testutil.NewBusinessBuilder().WithSettings(func(s *models.Settings) {
		// Sunday 10:00 plus 28h is Monday 14:00.
		s.Booking.MinNoticeHours = 28
	}).Build()
	f := newFixture(t, biz)

	_, err := f.flow.SelectService(ctx, f.in, "svc-cut")
	require.NoError(t, err)
	r, err := f.flow.SelectDate(ctx, f.in, "2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, []string{"2:00 PM", "3:00 PM", "4:00 PM", "❌ Cancel"}, labels(r))
}

func TestBookingFlow_UnknownService(t *testing.T) {
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.SelectService(context.Background(), f.in, "svc-nope")
	require.NoError(t, err)
	assert.Equal(t, "Service not found. Please try again.", r.Text)
}

func TestBookingFlow_CategoryHeaderNarrowsServices(t *testing.T) {
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.SelectCategory(context.Background(), f.in, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"📑 Other", "Consultation - $0.00", "❌ Cancel"}, labels(r))
	assert.Equal(t, models.SelectServiceCategory{Index: 1}.Encode(), r.Inline[0][0].Data)

	r, err = f.flow.SelectCategory(context.Background(), f.in, 7)
	require.NoError(t, err)
	assert.Len(t, labels(r), 6, "stale header shows every service")
}

func TestBookingFlow_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		biz  *models.Business
	}{
		{"no services", testutil.NewBusinessBuilder().WithServices().Build()},
		{"booking disabled", testutil.NewBusinessBuilder().WithSettings(func(s *models.Settings) {
			s.Features.EnableBooking = models.Bool(false)
		}).Build()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.biz)
			r, err := f.flow.Start(context.Background(), f.in)
			require.NoError(t, err)
			assert.Equal(t, "Booking is currently unavailable.", r.Text)
			assert.Equal(t, models.StepIdle, f.step(t))
		})
	}
}

func TestBookingFlow_CancelFromEveryStep(t *testing.T) {
	ctx := context.Background()
	advance := map[models.Step]func(f *fixture) error{
		models.StepBookingService: func(f *fixture) error {
			_, err := f.flow.Start(ctx, f.in)
			return err
		},
		models.StepBookingDate: func(f *fixture) error {
			_, err := f.flow.SelectService(ctx, f.in, "svc-cut")
			return err
		},
		models.StepBookingTime: func(f *fixture) error {
			if _, err := f.flow.SelectService(ctx, f.in, "svc-cut"); err != nil {
				return err
			}
			_, err := f.flow.SelectDate(ctx, f.in, "2025-01-06")
			return err
		},
	}
	for step, run := range advance {
		t.Run(string(step), func(t *testing.T) {
			f := newFixture(t, testutil.NewBusinessBuilder().Build())
			require.NoError(t, run(f))
			require.Equal(t, step, f.step(t))

			r, err := f.flow.Cancel(ctx, f.in)
			require.NoError(t, err)
			assert.Equal(t, "Booking cancelled. How else can I help you?", r.Text)
			assert.Equal(t, models.MainKeyboard(), r.Keyboard)

			s, err := f.sessions.Get(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, models.StepIdle, s.Step)
			assert.Nil(t, s.Booking)
		})
	}
}

func TestBookingFlow_IncompleteDraftRestarts(t *testing.T) {
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.SelectTime(context.Background(), f.in, "10:00")
	require.NoError(t, err)
	assert.Equal(t, "Booking information incomplete. Please start over.", r.Text)
	assert.Empty(t, f.customers.Customers()[0].Bookings)
}

func TestBookingFlow_StorageFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	_, err := f.flow.SelectService(ctx, f.in, "svc-cut")
	require.NoError(t, err)
	_, err = f.flow.SelectDate(ctx, f.in, "2025-01-06")
	require.NoError(t, err)

	f.customers.AppendErr = errors.New("mongo down")
	_, err = f.flow.SelectTime(ctx, f.in, "10:00")
	require.Error(t, err)

	s, err := f.sessions.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StepBookingTime, s.Step)
	require.NotNil(t, s.Booking)
	assert.Equal(t, "2025-01-06", s.Booking.Date)
	assert.Empty(t, f.notifier.Bookings)
}

func TestBookingFlow_UnknownCustomer(t *testing.T) {
	ctx := context.Background()
	biz := testutil.NewBusinessBuilder().Build()
	f := newFixture(t, biz)
	f.in.UserID = 7

	_, err := f.flow.SelectService(ctx, f.in, "svc-cut")
	require.NoError(t, err)
	_, err = f.flow.SelectDate(ctx, f.in, "2025-01-06")
	require.NoError(t, err)

	r, err := f.flow.SelectTime(ctx, f.in, "10:00")
	require.NoError(t, err)
	assert.Equal(t, "Customer information not found. Please start over.", r.Text)
}

func TestBookingFlow_ViewBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewBusinessBuilder().Build())

	r, err := f.flow.ViewBookings(ctx, f.in)
	require.NoError(t, err)
	assert.Equal(t, "You have no bookings yet.", r.Text)

	_, err = f.flow.SelectService(ctx, f.in, "svc-shave")
	require.NoError(t, err)
	_, err = f.flow.SelectDate(ctx, f.in, "2025-01-07")
	require.NoError(t, err)
	_, err = f.flow.SelectTime(ctx, f.in, "09:00")
	require.NoError(t, err)

	r, err = f.flow.ViewBookings(ctx, f.in)
	require.NoError(t, err)
	assert.Contains(t, r.Text, "Shave - January 7, 2025 9:00 AM (pending)")
}

func TestTimeSlots(t *testing.T) {
	slots, err := booking.TimeSlots(models.WorkingHours{Day: "Monday", Open: "09:00", Close: "11:30", IsOpen: true})
	require.NoError(t, err)
	assert.Equal(t, []booking.Option{
		{Label: "9:00 AM", Value: "09:00"},
		{Label: "10:00 AM", Value: "10:00"},
		{Label: "11:00 AM", Value: "11:00"},
	}, slots)

	slots, err = booking.TimeSlots(models.WorkingHours{Day: "Sunday", Open: "10:00", Close: "15:00"})
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = booking.TimeSlots(models.WorkingHours{Open: "nine", Close: "17:00", IsOpen: true})
	assert.Error(t, err)
}
