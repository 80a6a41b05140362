// Package testutil holds in-memory fakes and fixtures shared by package tests.
package testutil

import (
	"time"

	"cupbot/models"
)

// BusinessBuilder builds a sample business. Monday to Friday 09:00-17:00 open,
// weekends closed.
type BusinessBuilder struct {
	b models.Business
}

func NewBusinessBuilder() *BusinessBuilder {
	return &BusinessBuilder{b: models.Business{
		ID:           "biz-1",
		Name:         "Corner Cup",
		OwnerEmail:   "owner@cornercup.test",
		Description:  "Neighbourhood coffee and grooming bar",
		BusinessType: "cafe",
		Services: []models.Service{
			{ID: "svc-cut", Name: "Haircut", Price: 25, DurationMinutes: 30, Category: "Hair"},
			{ID: "svc-shave", Name: "Shave", Price: 15, DurationMinutes: 20, Category: "Hair"},
			{ID: "svc-misc", Name: "Consultation", Price: 0},
		},
		Menu: models.Menu{Categories: []models.MenuCategory{
			{Name: "Coffee", Items: []models.MenuItem{
				{ID: "item-a", Name: "Flat White", Price: 10, Category: "Coffee"},
				{ID: "item-b", Name: "Espresso", Price: 5, Category: "Coffee"},
			}},
			{Name: "Pastry", Items: []models.MenuItem{
				{ID: "item-c", Name: "Croissant", Price: 3.5, Category: "Pastry"},
			}},
		}},
		WorkingHours: models.DefaultWorkingHours(),
		ContactInfo: models.ContactInfo{
			Phone:   "+1 555 0100",
			Email:   "hello@cornercup.test",
			Address: "1 Main St",
		},
		Settings:  models.DefaultSettings("owner@cornercup.test"),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func (bb *BusinessBuilder) WithID(id string) *BusinessBuilder {
	bb.b.ID = id
	return bb
}

func (bb *BusinessBuilder) WithServices(s ...models.Service) *BusinessBuilder {
	bb.b.Services = s
	return bb
}

func (bb *BusinessBuilder) WithMenu(c ...models.MenuCategory) *BusinessBuilder {
	bb.b.Menu.Categories = c
	return bb
}

func (bb *BusinessBuilder) WithHours(h ...models.WorkingHours) *BusinessBuilder {
	bb.b.WorkingHours = h
	return bb
}

func (bb *BusinessBuilder) WithAutoResponses(r ...models.AutoResponse) *BusinessBuilder {
	bb.b.Settings.Customization.AutoResponses = r
	return bb
}

func (bb *BusinessBuilder) WithCommands(c ...models.CustomCommand) *BusinessBuilder {
	bb.b.Settings.Customization.CommandList = c
	return bb
}

func (bb *BusinessBuilder) WithSettings(mutate func(*models.Settings)) *BusinessBuilder {
	mutate(&bb.b.Settings)
	return bb
}

func (bb *BusinessBuilder) Build() *models.Business {
	b := bb.b
	return &b
}

// Profile is a sample Telegram sender.
func Profile(userID int64) models.CustomerProfile {
	return models.CustomerProfile{
		TelegramID: userID,
		ChatID:     userID,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Username:   "ada",
	}
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Sunday 5 Jan 2025, 10:00 UTC. Tomorrow is a Monday.
var SundayMorning = time.Date(2025, time.January, 5, 10, 0, 0, 0, time.UTC)
