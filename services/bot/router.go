package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"cupbot/models"
	"cupbot/services/booking"
	"cupbot/services/catalog"
	"cupbot/services/intelligence"
	"cupbot/services/order"
	"cupbot/services/session"
	"cupbot/utils"

	"go.uber.org/zap"
)

const (
	// DefaultHistoryLimit is how many prior interactions the responders see.
	DefaultHistoryLimit = 5

	msgUnavailable     = "Sorry, the service is currently unavailable."
	msgGeneric         = "Sorry, something went wrong. Please try again later."
	msgResponderFailed = "Sorry, there was an error processing your message. Please try using specific commands like /help, /book, or /order."
	msgUnknownCommand  = "Sorry, I don't recognize that command. Use /help to see available commands."
)

// Catalog resolves the business an event belongs to.
type Catalog interface {
	Business(ctx context.Context, businessID string) (*models.Business, error)
}

// Interactions records and replays a customer's conversation history.
type Interactions interface {
	UpsertInteraction(ctx context.Context, businessID string, profile models.CustomerProfile, in models.Interaction) (*models.Customer, error)
	RecentInteractions(ctx context.Context, businessID string, telegramID int64, limit int) ([]models.Interaction, error)
}

// Responder answers free text.
type Responder interface {
	Respond(ctx context.Context, req intelligence.Request) (string, error)
}

// Router turns every inbound chat event into exactly one reply.
type Router struct {
	Catalog      Catalog
	Interactions Interactions
	Sessions     session.Store
	Booking      booking.BookingFlow
	Orders       order.OrderFlow
	Responder    Responder
	Clock        utils.Clock
	HistoryLimit int
	Logger       *zap.Logger
}

func NewRouter(
	cat Catalog,
	interactions Interactions,
	sessions session.Store,
	bookingFlow booking.BookingFlow,
	orderFlow order.OrderFlow,
	responder Responder,
	historyLimit int,
) *Router {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Router{
		Catalog:      cat,
		Interactions: interactions,
		Sessions:     sessions,
		Booking:      bookingFlow,
		Orders:       orderFlow,
		Responder:    responder,
		Clock:        utils.SystemClock{},
		HistoryLimit: historyLimit,
		Logger:       utils.GetLogger(),
	}
}

// Handle classifies and dispatches one event. It never fails: errors and
// panics become apologies.
func (r *Router) Handle(ctx context.Context, in models.Inbound) (reply models.Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Logger.Error("panic while handling update",
				zap.Int64("userID", in.UserID),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			reply = models.TextReply(msgGeneric)
		}
	}()

	b, err := r.Catalog.Business(ctx, in.BusinessID)
	if err != nil {
		return r.fail(ctx, in, err)
	}
	in.BusinessID = b.ID

	switch in.Kind {
	case models.KindCallback:
		reply, err = r.handleCallback(ctx, in)
	case models.KindCommand:
		reply, err = r.handleCommand(ctx, in, b, in.Command)
	default:
		if cmd, ok := commandFromText(in.Text); ok {
			reply, err = r.handleCommand(ctx, in, b, cmd)
		} else {
			reply = r.handleText(ctx, in, b)
		}
	}
	if err != nil {
		return r.fail(ctx, in, err)
	}
	return reply
}

var labelCommands = map[string]string{
	models.LabelInfo:  "info",
	models.LabelBook:  "book",
	models.LabelOrder: "order",
	models.LabelHelp:  "help",
}

// commandFromText recognizes keyboard labels and slash commands typed as text.
func commandFromText(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if cmd, ok := labelCommands[text]; ok {
		return cmd, true
	}
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0][1:]
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd, cmd != ""
}

func (r *Router) handleCommand(ctx context.Context, in models.Inbound, b *models.Business, cmd string) (models.Reply, error) {
	cmd = strings.ToLower(strings.TrimPrefix(cmd, "/"))
	r.record(ctx, in, models.InteractionCommand, "/"+cmd)

	if err := r.Sessions.Clear(ctx, in.UserID); err != nil {
		return models.Reply{}, fmt.Errorf("failed to reset session: %w", err)
	}

	switch cmd {
	case "start":
		return models.MainMenuReply(welcomeText(b)), nil
	case "help":
		return models.MainMenuReply(helpText), nil
	case "info":
		return models.TextReply(infoText(b)), nil
	case "book":
		return r.Booking.Start(ctx, in)
	case "order":
		return r.Orders.Start(ctx, in)
	}

	if text, ok := customCommand(b, cmd); ok {
		return models.MainMenuReply(text), nil
	}
	return models.TextReply(msgUnknownCommand), nil
}

// customCommand finds an enabled owner-defined command. Its reply is the
// configured response, else an auto-response triggered by the command name,
// else the description.
func customCommand(b *models.Business, cmd string) (string, bool) {
	c := b.Settings.Customization
	for _, cc := range c.CommandList {
		if !cc.Enabled || !strings.EqualFold(strings.TrimPrefix(cc.Command, "/"), cmd) {
			continue
		}
		if cc.Response != "" {
			return cc.Response, true
		}
		for _, ar := range c.AutoResponses {
			if strings.EqualFold(strings.TrimPrefix(ar.Trigger, "/"), cmd) {
				return ar.Response, true
			}
		}
		return cc.Description, true
	}
	return "", false
}

func (r *Router) handleCallback(ctx context.Context, in models.Inbound) (models.Reply, error) {
	action, err := models.DecodeAction(in.CallbackData)
	if err != nil {
		r.Logger.Debug("undecodable callback", zap.String("data", in.CallbackData))
		return models.MainMenuReply(helpText), nil
	}

	switch a := action.(type) {
	case models.SelectServiceCategory:
		return r.Booking.SelectCategory(ctx, in, a.Index)
	case models.SelectService:
		return r.Booking.SelectService(ctx, in, a.ServiceID)
	case models.SelectDate:
		return r.Booking.SelectDate(ctx, in, a.Date)
	case models.SelectTime:
		return r.Booking.SelectTime(ctx, in, a.Time)
	case models.CancelBooking:
		return r.Booking.Cancel(ctx, in)
	case models.ViewBookings:
		return r.Booking.ViewBookings(ctx, in)
	case models.SelectCategory:
		return r.Orders.SelectCategory(ctx, in, a.Index)
	case models.SelectItem:
		return r.Orders.SelectItem(ctx, in, a.ItemID)
	case models.SelectQuantity:
		return r.Orders.SelectQuantity(ctx, in, a.ItemID, a.Quantity)
	case models.OrderMore:
		return r.Orders.More(ctx, in)
	case models.ViewCart:
		return r.Orders.ViewCart(ctx, in)
	case models.Checkout:
		return r.Orders.Checkout(ctx, in)
	case models.CancelOrder:
		return r.Orders.Cancel(ctx, in)
	case models.ViewOrders:
		return r.Orders.ViewOrders(ctx, in)
	default:
		return models.Reply{}, fmt.Errorf("%w: %T", models.ErrUnknownAction, action)
	}
}

// handleText runs the responder chain. Both sides of the exchange are kept
// in the interaction history.
func (r *Router) handleText(ctx context.Context, in models.Inbound, b *models.Business) models.Reply {
	history, err := r.Interactions.RecentInteractions(ctx, b.ID, in.UserID, r.HistoryLimit)
	if err != nil {
		r.Logger.Warn("failed to load interaction history", zap.Int64("userID", in.UserID), zap.Error(err))
		history = nil
	}

	text, err := r.Responder.Respond(ctx, intelligence.Request{
		Business: b,
		Message:  in.Text,
		History:  history,
	})
	if err != nil {
		r.Logger.Error("responder chain failed", zap.Int64("userID", in.UserID), zap.Error(err))
		text = msgResponderFailed
	}

	r.record(ctx, in, models.InteractionMessage, in.Text)
	r.record(ctx, in, models.InteractionReply, text)
	return models.MainMenuReply(text)
}

func (r *Router) record(ctx context.Context, in models.Inbound, kind, message string) {
	profile := in.Profile
	if profile.TelegramID == 0 {
		profile.TelegramID = in.UserID
	}
	if profile.ChatID == 0 {
		profile.ChatID = in.ChatID
	}
	interaction := models.Interaction{Type: kind, Message: message, Timestamp: r.now()}
	if _, err := r.Interactions.UpsertInteraction(ctx, in.BusinessID, profile, interaction); err != nil {
		r.Logger.Warn("failed to record interaction",
			zap.Int64("userID", in.UserID),
			zap.String("type", kind),
			zap.Error(err),
		)
	}
}

func (r *Router) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock.Now()
}

// fail maps an engine error to a reply. A missing business ends the
// conversation; anything else leaves the session for a retry.
func (r *Router) fail(ctx context.Context, in models.Inbound, err error) models.Reply {
	if errors.Is(err, catalog.ErrBusinessNotFound) {
		r.Logger.Warn("business not found", zap.String("businessID", in.BusinessID), zap.Int64("userID", in.UserID))
		if cerr := r.Sessions.Clear(ctx, in.UserID); cerr != nil {
			r.Logger.Warn("failed to clear session", zap.Int64("userID", in.UserID), zap.Error(cerr))
		}
		return models.TextReply(msgUnavailable)
	}
	r.Logger.Error("failed to handle update",
		zap.Int64("userID", in.UserID),
		zap.Int("kind", int(in.Kind)),
		zap.Error(err),
	)
	return models.TextReply(msgGeneric)
}
