package models

import "time"

// Business is a tenant: its catalog, opening hours and bot configuration.
type Business struct {
	ID           string         `bson:"id" json:"id"`
	Name         string         `bson:"name" json:"name"`
	OwnerEmail   string         `bson:"ownerEmail" json:"ownerEmail"`
	PasswordHash string         `bson:"passwordHash" json:"-"`
	Description  string         `bson:"description" json:"description"`
	BusinessType string         `bson:"businessType" json:"businessType"`
	Services     []Service      `bson:"services" json:"services"`
	Menu         Menu           `bson:"menu" json:"menu"`
	WorkingHours []WorkingHours `bson:"workingHours" json:"workingHours"`
	ContactInfo  ContactInfo    `bson:"contactInfo" json:"contactInfo"`
	Settings     Settings       `bson:"settings" json:"settings"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type Service struct {
	ID              string  `bson:"id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	Description     string  `bson:"description" json:"description"`
	Price           float64 `bson:"price" json:"price"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"` // 0 when not set
	Category        string  `bson:"category" json:"category"`
}

type Menu struct {
	Categories []MenuCategory `bson:"categories" json:"categories"`
}

type MenuCategory struct {
	Name  string     `bson:"name" json:"name"`
	Items []MenuItem `bson:"items" json:"items"`
}

type MenuItem struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
	Category    string  `bson:"category" json:"category"`
}

// WorkingHours describes one weekday. Open and Close are "15:04" clock times.
type WorkingHours struct {
	Day    string `bson:"day" json:"day"` // "Monday" .. "Sunday"
	Open   string `bson:"open" json:"open"`
	Close  string `bson:"close" json:"close"`
	IsOpen bool   `bson:"isOpen" json:"isOpen"`
}

type ContactInfo struct {
	Phone   string `bson:"phone" json:"phone"`
	Email   string `bson:"email" json:"email"`
	Address string `bson:"address" json:"address"`
}

type Settings struct {
	AutoReply      bool                 `bson:"autoReply" json:"autoReply"`
	WelcomeMessage string               `bson:"welcomeMessage" json:"welcomeMessage"`
	Languages      []string             `bson:"languages" json:"languages"`
	Currency       string               `bson:"currency" json:"currency"`
	TimeZone       string               `bson:"timeZone" json:"timeZone"`
	Theme          Theme                `bson:"theme" json:"theme"`
	Features       Features             `bson:"features" json:"features"`
	Booking        BookingSettings      `bson:"booking" json:"booking"`
	Ordering       OrderingSettings     `bson:"ordering" json:"ordering"`
	Notifications  NotificationSettings `bson:"notifications" json:"notifications"`
	Profile        OwnerProfile         `bson:"profile" json:"profile"`
	Customization  ChatbotCustomization `bson:"customization" json:"customization"`
}

type Theme struct {
	PrimaryColor   string `bson:"primaryColor" json:"primaryColor"`
	SecondaryColor string `bson:"secondaryColor" json:"secondaryColor"`
	Logo           string `bson:"logo" json:"logo"`
}

// Features switches bot capabilities off. A flag left unset means enabled.
type Features struct {
	EnableBooking  *bool `bson:"enableBooking,omitempty" json:"enableBooking,omitempty"`
	EnableOrdering *bool `bson:"enableOrdering,omitempty" json:"enableOrdering,omitempty"`
	EnableAI       *bool `bson:"enableAI,omitempty" json:"enableAI,omitempty"`
}

func (f Features) BookingEnabled() bool  { return enabled(f.EnableBooking) }
func (f Features) OrderingEnabled() bool { return enabled(f.EnableOrdering) }
func (f Features) AIEnabled() bool       { return enabled(f.EnableAI) }

func enabled(flag *bool) bool { return flag == nil || *flag }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

type BookingSettings struct {
	MaxDaysInAdvance int `bson:"maxDaysInAdvance" json:"maxDaysInAdvance"`
	MinNoticeHours   int `bson:"minNoticeHours" json:"minNoticeHours"`
}

type OrderingSettings struct {
	MinimumOrder float64 `bson:"minimumOrder" json:"minimumOrder"`
}

type NotificationSettings struct {
	Telegram    bool `bson:"telegram" json:"telegram"`
	NewBooking  bool `bson:"newBooking" json:"newBooking"`
	NewOrder    bool `bson:"newOrder" json:"newOrder"`
	OrderStatus bool `bson:"orderStatus" json:"orderStatus"`
	Reminders   bool `bson:"reminders" json:"reminders"`
}

// OwnerProfile identifies the owner. TelegramID is where owner alerts go.
type OwnerProfile struct {
	FirstName  string `bson:"firstName" json:"firstName"`
	LastName   string `bson:"lastName" json:"lastName"`
	Email      string `bson:"email" json:"email"`
	TelegramID int64  `bson:"telegramId" json:"telegramId"`
}

type ChatbotCustomization struct {
	CommandList   []CustomCommand `bson:"commandList" json:"commandList"`
	AutoResponses []AutoResponse  `bson:"autoResponses" json:"autoResponses"`
}

// CustomCommand is an owner-defined slash command with a fixed reply.
type CustomCommand struct {
	Command     string `bson:"command" json:"command"`
	Response    string `bson:"response" json:"response"`
	Description string `bson:"description" json:"description"`
	Enabled     bool   `bson:"enabled" json:"enabled"`
}

// AutoResponse pairs a trigger keyword with a canned reply.
type AutoResponse struct {
	Trigger  string `bson:"trigger" json:"trigger"`
	Response string `bson:"response" json:"response"`
}

// Weekdays in the order hours are displayed.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DefaultWorkingHours is what a newly registered business starts with.
func DefaultWorkingHours() []WorkingHours {
	hours := make([]WorkingHours, 0, len(Weekdays))
	for _, day := range Weekdays {
		switch day {
		case "Saturday", "Sunday":
			hours = append(hours, WorkingHours{Day: day, Open: "10:00", Close: "15:00", IsOpen: false})
		default:
			hours = append(hours, WorkingHours{Day: day, Open: "09:00", Close: "17:00", IsOpen: true})
		}
	}
	return hours
}

// FillDefaults completes every settings section a document left empty.
func (s *Settings) FillDefaults(ownerEmail string) {
	d := DefaultSettings(ownerEmail)
	if s.WelcomeMessage == "" {
		s.WelcomeMessage = d.WelcomeMessage
	}
	if len(s.Languages) == 0 {
		s.Languages = d.Languages
	}
	if s.Currency == "" {
		s.Currency = d.Currency
	}
	if s.TimeZone == "" {
		s.TimeZone = d.TimeZone
	}
	if s.Theme.PrimaryColor == "" {
		s.Theme.PrimaryColor = d.Theme.PrimaryColor
	}
	if s.Theme.SecondaryColor == "" {
		s.Theme.SecondaryColor = d.Theme.SecondaryColor
	}
	if s.Features.EnableBooking == nil {
		s.Features.EnableBooking = d.Features.EnableBooking
	}
	if s.Features.EnableOrdering == nil {
		s.Features.EnableOrdering = d.Features.EnableOrdering
	}
	if s.Features.EnableAI == nil {
		s.Features.EnableAI = d.Features.EnableAI
	}
	if s.Booking == (BookingSettings{}) {
		s.Booking = d.Booking
	}
	if s.Notifications == (NotificationSettings{}) {
		s.Notifications = d.Notifications
	}
	if s.Profile.Email == "" {
		s.Profile.Email = ownerEmail
	}
	if s.Customization.CommandList == nil {
		s.Customization.CommandList = d.Customization.CommandList
	}
	if s.Customization.AutoResponses == nil {
		s.Customization.AutoResponses = d.Customization.AutoResponses
	}
}

// DefaultSettings mirrors the dashboard defaults.
func DefaultSettings(ownerEmail string) Settings {
	return Settings{
		AutoReply:      true,
		WelcomeMessage: "Welcome! How can I help you today?",
		Languages:      []string{"en"},
		Currency:       "USD",
		TimeZone:       "UTC",
		Theme:          Theme{PrimaryColor: "#1976d2", SecondaryColor: "#dc004e"},
		Features:       Features{EnableBooking: Bool(true), EnableOrdering: Bool(true), EnableAI: Bool(true)},
		Booking:        BookingSettings{MaxDaysInAdvance: 30, MinNoticeHours: 0},
		Notifications: NotificationSettings{
			Telegram:    true,
			NewBooking:  true,
			NewOrder:    true,
			OrderStatus: true,
			Reminders:   true,
		},
		Profile: OwnerProfile{Email: ownerEmail},
		Customization: ChatbotCustomization{
			CommandList:   []CustomCommand{},
			AutoResponses: []AutoResponse{},
		},
	}
}
