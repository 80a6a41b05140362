package intelligence

import (
	"context"
	"fmt"
	"strings"

	"cupbot/models"
)

const (
	helpText = "💡 Here are the available commands:\n" +
		"/start - Start interacting with the bot\n" +
		"/info - Get business information\n" +
		"/book - Make an appointment\n" +
		"/order - Place an order\n" +
		"/help - Show this help message"

	defaultText = "👋 How can I assist you today? You can use these commands:\n" +
		"/info - Business information\n" +
		"/book - Make an appointment\n" +
		"/order - Place an order\n" +
		"/help - Show all commands"
)

type rule struct {
	keywords []string
	reply    func(b *models.Business) string
}

// Checked in order; the first group with a matching keyword wins.
var rules = []rule{
	{[]string{"menu", "products", "items", "food", "drinks", "price"}, func(*models.Business) string {
		return "🍽️ You can browse our complete menu and prices using the /order command!"
	}},
	{[]string{"hours", "open", "close", "time", "schedule", "when"}, func(b *models.Business) string {
		return "⏰ We're open during these hours:\n" + FormatHours(b.WorkingHours) + "\nFeel free to use /info for more details!"
	}},
	{[]string{"book", "appointment", "schedule", "reservation"}, func(*models.Business) string {
		return "📅 Ready to make a booking? Use the /book command to schedule your appointment!"
	}},
	{[]string{"where", "location", "address", "directions"}, func(b *models.Business) string {
		return fmt.Sprintf("📍 You can find us at: %s\nUse /info for more details!", b.ContactInfo.Address)
	}},
	{[]string{"service", "offer", "provide", "available"}, func(b *models.Business) string {
		names := make([]string, 0, len(b.Services))
		for _, s := range b.Services {
			names = append(names, "- "+s.Name)
		}
		return "✨ We offer these services:\n" + strings.Join(names, "\n") + "\nUse /info to see our complete list of services."
	}},
	{[]string{"order", "delivery", "pickup", "takeout"}, func(*models.Business) string {
		return "🛍️ Ready to place an order? Use the /order command to start ordering!"
	}},
	{[]string{"help", "support", "assist", "how"}, func(*models.Business) string {
		return helpText
	}},
}

// RuleResponder answers from keyword groups and always produces a reply.
type RuleResponder struct{}

func (RuleResponder) TryRespond(_ context.Context, req Request) (string, bool, error) {
	b := req.Business
	if b == nil {
		b = &models.Business{}
	}
	text := strings.ToLower(req.Message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.reply(b), true, nil
			}
		}
	}
	return defaultText, true, nil
}

// FormatHours renders one "Day: open - close" or "Day: Closed" line per day.
func FormatHours(hours []models.WorkingHours) string {
	lines := make([]string, 0, len(hours))
	for _, h := range hours {
		if h.IsOpen {
			lines = append(lines, fmt.Sprintf("%s: %s - %s", h.Day, h.Open, h.Close))
		} else {
			lines = append(lines, h.Day+": Closed")
		}
	}
	return strings.Join(lines, "\n")
}
