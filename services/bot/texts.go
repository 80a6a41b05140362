package bot

import (
	"fmt"
	"strings"

	"cupbot/models"
	"cupbot/services/intelligence"
)

const helpText = `🤖 Available Commands:

/start - Start the bot and show main menu
/info - Get business information and working hours
/book - Book an appointment for services
/order - Place an order for products/services
/help - Show this help message

Need more assistance? Contact us through the business information.`

const commandList = `Here are the available commands:
/info - Get business information
/book - Book an appointment
/order - Place an order
/help - Get help with commands`

func welcomeText(b *models.Business) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👋 Welcome to %s!\n\n", b.Name)
	if msg := strings.TrimSpace(b.Settings.WelcomeMessage); msg != "" {
		sb.WriteString(msg)
		sb.WriteString("\n\n")
	}
	sb.WriteString(commandList)
	return sb.String()
}

func infoText(b *models.Business) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏢 %s\n", b.Name)
	if b.Description != "" {
		fmt.Fprintf(&sb, "\n📝 Description:\n%s\n", b.Description)
	}
	if len(b.WorkingHours) > 0 {
		fmt.Fprintf(&sb, "\n⏰ Working Hours:\n%s\n", intelligence.FormatHours(b.WorkingHours))
	}
	c := b.ContactInfo
	fmt.Fprintf(&sb, "\n📞 Contact:\nPhone: %s\nEmail: %s\nAddress: %s", c.Phone, c.Email, c.Address)
	return sb.String()
}
