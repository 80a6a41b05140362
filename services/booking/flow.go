package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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
	msgUnavailable      = "Booking is currently unavailable."
	msgSelectService    = "Please select a service to book:"
	msgSelectDate       = "Please choose a date:"
	msgSelectTime       = "Please select a time:"
	msgClosed           = "Sorry, we are closed on this day. Please select another date."
	msgServiceNotFound  = "Service not found. Please try again."
	msgServiceGone      = "Service not found. Please start over."
	msgIncomplete       = "Booking information incomplete. Please start over."
	msgCustomerNotFound = "Customer information not found. Please start over."
	msgCancelled        = "Booking cancelled. How else can I help you?"
	msgNoBookings       = "You have no bookings yet."

	timeSlotsPerRow = 3
)

// DefaultBookingFlow implements BookingFlow on top of a session store.
type DefaultBookingFlow struct {
	Catalog   Catalog
	Customers Customers
	Sessions  session.Store
	Notifier  notification.Notifier
	Clock     utils.Clock
	Logger    *zap.Logger
}

func NewBookingFlow(
	cat Catalog,
	customers Customers,
	sessions session.Store,
	notifier notification.Notifier,
	clock utils.Clock,
) *DefaultBookingFlow {
	if notifier == nil {
		notifier = notification.NoopNotifier{}
	}
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &DefaultBookingFlow{
		Catalog:   cat,
		Customers: customers,
		Sessions:  sessions,
		Notifier:  notifier,
		Clock:     clock,
		Logger:    utils.GetLogger(),
	}
}

func stepPtr(s models.Step) *models.Step { return &s }

func (f *DefaultBookingFlow) Start(ctx context.Context, in models.Inbound) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	if !b.Settings.Features.BookingEnabled() || len(b.Services) == 0 {
		return models.TextReply(msgUnavailable), nil
	}

	if _, err := f.Sessions.Update(ctx, in.UserID, models.SessionPatch{
		Step:    stepPtr(models.StepBookingService),
		Booking: &models.BookingDraft{},
	}); err != nil {
		return models.Reply{}, err
	}
	return servicePrompt(b, b.Services), nil
}

// SelectCategory narrows the service list to one category header. An index
// outside the current grouping shows every service again.
func (f *DefaultBookingFlow) SelectCategory(ctx context.Context, in models.Inbound, index int) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}

	var services []models.Service
	if groups := catalog.GroupServices(b.Services); index >= 0 && index < len(groups) {
		services = groups[index].Services
	}
	if len(services) == 0 {
		services = b.Services
	}
	if len(services) == 0 {
		return models.TextReply(msgUnavailable), nil
	}

	if _, err := f.Sessions.Update(ctx, in.UserID, models.SessionPatch{
		Step:    stepPtr(models.StepBookingService),
		Booking: &models.BookingDraft{},
	}); err != nil {
		return models.Reply{}, err
	}
	return servicePrompt(b, services), nil
}

func (f *DefaultBookingFlow) SelectService(ctx context.Context, in models.Inbound, serviceID string) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	svc, err := f.Catalog.FindService(ctx, b.ID, serviceID)
	if errors.Is(err, catalog.ErrServiceNotFound) {
		return models.TextReply(msgServiceNotFound), nil
	}
	if err != nil {
		return models.Reply{}, err
	}

	if _, err := f.Sessions.Update(ctx, in.UserID, models.SessionPatch{
		Step:    stepPtr(models.StepBookingDate),
		Booking: &models.BookingDraft{ServiceID: svc.ID},
	}); err != nil {
		return models.Reply{}, err
	}
	return dateReply(fmt.Sprintf("You selected: %s\n%s", svc.Name, msgSelectDate), f.dateOptions(b)), nil
}

// SelectDate advances to time selection, or re-prompts when the business is
// closed that day or the date is not one of the offered ones.
func (f *DefaultBookingFlow) SelectDate(ctx context.Context, in models.Inbound, date string) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	offered := f.dateOptions(b)
	if !containsValue(offered, date) {
		return dateReply(msgSelectDate, offered), nil
	}

	slots := f.slotsFor(b, date)
	if len(slots) == 0 {
		return dateReply(msgClosed, offered), nil
	}

	sess, err := f.Sessions.Get(ctx, in.UserID)
	if err != nil {
		return models.Reply{}, err
	}
	draft := models.BookingDraft{}
	if sess.Booking != nil {
		draft = *sess.Booking
	}
	draft.Date = date
	draft.Time = ""

	if _, err := f.Sessions.Update(ctx, in.UserID, models.SessionPatch{
		Step:    stepPtr(models.StepBookingTime),
		Booking: &draft,
	}); err != nil {
		return models.Reply{}, err
	}
	return timeReply(msgSelectTime, slots), nil
}

// SelectTime confirms the booking. Its preconditions cannot be repaired
// mid-flow, so a broken draft sends the user back to the start.
func (f *DefaultBookingFlow) SelectTime(ctx context.Context, in models.Inbound, hhmm string) (models.Reply, error) {
	sess, err := f.Sessions.Get(ctx, in.UserID)
	if err != nil {
		return models.Reply{}, err
	}
	if sess.Booking == nil || sess.Booking.ServiceID == "" || sess.Booking.Date == "" {
		return f.restart(ctx, in, msgIncomplete)
	}
	draft := *sess.Booking
	draft.Time = hhmm

	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	svc, err := f.Catalog.FindService(ctx, b.ID, draft.ServiceID)
	if errors.Is(err, catalog.ErrServiceNotFound) {
		return f.restart(ctx, in, msgServiceGone)
	}
	if err != nil {
		return models.Reply{}, err
	}

	slots := f.slotsFor(b, draft.Date)
	if len(slots) == 0 {
		return dateReply(msgClosed, f.dateOptions(b)), nil
	}
	if !containsValue(slots, hhmm) {
		return timeReply(msgSelectTime, slots), nil
	}

	loc := catalog.Location(b)
	at, err := At(draft.Date, draft.Time, loc)
	if err != nil {
		return f.restart(ctx, in, msgIncomplete)
	}

	cust, err := f.Customers.FindByTelegramID(ctx, b.ID, in.UserID)
	if errors.Is(err, customerRepo.ErrNotFound) {
		return f.restart(ctx, in, msgCustomerNotFound)
	}
	if err != nil {
		return models.Reply{}, err
	}

	booking := models.Booking{
		ID:          uuid.New().String(),
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Date:        at,
		Status:      models.StatusPending,
		CreatedAt:   f.Clock.Now(),
	}
	if err := f.Customers.AppendBooking(ctx, cust.ID, booking); err != nil {
		return models.Reply{}, fmt.Errorf("failed to save booking: %w", err)
	}

	if err := f.Sessions.Clear(ctx, in.UserID); err != nil {
		f.Logger.Warn("failed to clear session after booking", zap.Int64("userID", in.UserID), zap.Error(err))
	}
	if err := f.Notifier.BookingCreated(ctx, b, cust, booking); err != nil {
		f.Logger.Warn("failed to notify owner of booking", zap.String("bookingID", booking.ID), zap.Error(err))
	}

	f.Logger.Info("booking created",
		zap.String("businessID", b.ID),
		zap.String("customerID", cust.ID),
		zap.String("service", svc.Name),
		zap.Time("at", at),
	)

	text := fmt.Sprintf("✅ Booking confirmed!\n\nService: %s\nDate: %s\nTime: %s\n\nWe will notify you when your booking is confirmed.",
		svc.Name, at.Format(confirmDateLayout), at.Format(timeLabelLayout))
	return models.Reply{
		Text:   text,
		Inline: [][]models.Button{{models.ActionButton("📋 View My Bookings", models.ViewBookings{})}},
	}, nil
}

func (f *DefaultBookingFlow) Cancel(ctx context.Context, in models.Inbound) (models.Reply, error) {
	if err := f.Sessions.Clear(ctx, in.UserID); err != nil {
		return models.Reply{}, err
	}
	return models.MainMenuReply(msgCancelled), nil
}

func (f *DefaultBookingFlow) ViewBookings(ctx context.Context, in models.Inbound) (models.Reply, error) {
	b, err := f.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return models.Reply{}, err
	}
	cust, err := f.Customers.FindByTelegramID(ctx, b.ID, in.UserID)
	if errors.Is(err, customerRepo.ErrNotFound) {
		return models.TextReply(msgNoBookings), nil
	}
	if err != nil {
		return models.Reply{}, err
	}
	if len(cust.Bookings) == 0 {
		return models.TextReply(msgNoBookings), nil
	}

	loc := catalog.Location(b)
	var sb strings.Builder
	sb.WriteString("📋 Your Bookings:\n")
	for _, bk := range cust.Bookings {
		at := bk.Date.In(loc)
		fmt.Fprintf(&sb, "\n%s - %s %s (%s)", bk.ServiceName, at.Format(confirmDateLayout), at.Format(timeLabelLayout), bk.Status)
	}
	return models.TextReply(sb.String()), nil
}

func (f *DefaultBookingFlow) restart(ctx context.Context, in models.Inbound, text string) (models.Reply, error) {
	if err := f.Sessions.Clear(ctx, in.UserID); err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}

func (f *DefaultBookingFlow) dateOptions(b *models.Business) []Option {
	n := DaysOffered
	if limit := b.Settings.Booking.MaxDaysInAdvance; limit > 0 && limit < n {
		n = limit
	}
	return DateOptions(f.Clock.Now().In(catalog.Location(b)), n)
}

// slotsFor returns the bookable slots on a date, honouring minimum notice.
func (f *DefaultBookingFlow) slotsFor(b *models.Business, date string) []Option {
	loc := catalog.Location(b)
	day, err := time.ParseInLocation(dateValueLayout, date, loc)
	if err != nil {
		return nil
	}
	hours, err := catalog.HoursFor(b, day.Weekday())
	if err != nil {
		return nil
	}
	slots, err := TimeSlots(*hours)
	if err != nil {
		f.Logger.Warn("invalid working hours", zap.String("businessID", b.ID), zap.String("day", hours.Day), zap.Error(err))
		return nil
	}

	earliest := f.Clock.Now().Add(time.Duration(b.Settings.Booking.MinNoticeHours) * time.Hour)
	var out []Option
	for _, s := range slots {
		at, err := At(date, s.Value, loc)
		if err != nil || at.Before(earliest) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func servicePrompt(b *models.Business, services []models.Service) models.Reply {
	index := make(map[string]int)
	for i, g := range catalog.GroupServices(b.Services) {
		index[g.Category] = i
	}

	var rows [][]models.Button
	for _, g := range catalog.GroupServices(services) {
		rows = append(rows, []models.Button{models.ActionButton("📑 "+g.Category, models.SelectServiceCategory{Index: index[g.Category]})})
		for _, s := range g.Services {
			label := fmt.Sprintf("%s - %s", s.Name, utils.FormatMoney(s.Price, b.Settings.Currency))
			rows = append(rows, []models.Button{models.ActionButton(label, models.SelectService{ServiceID: s.ID})})
		}
	}
	rows = append(rows, cancelRow())
	return models.Reply{Text: msgSelectService, Inline: rows}
}

func dateReply(text string, dates []Option) models.Reply {
	rows := make([][]models.Button, 0, len(dates)+1)
	for _, d := range dates {
		rows = append(rows, []models.Button{models.ActionButton(d.Label, models.SelectDate{Date: d.Value})})
	}
	rows = append(rows, cancelRow())
	return models.Reply{Text: text, Inline: rows}
}

func timeReply(text string, slots []Option) models.Reply {
	var rows [][]models.Button
	var row []models.Button
	for _, s := range slots {
		row = append(row, models.ActionButton(s.Label, models.SelectTime{Time: s.Value}))
		if len(row) == timeSlotsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, cancelRow())
	return models.Reply{Text: text, Inline: rows}
}

func cancelRow() []models.Button {
	return []models.Button{models.ActionButton("❌ Cancel", models.CancelBooking{})}
}

func containsValue(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
