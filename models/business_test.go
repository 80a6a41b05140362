package models_test

import (
	"testing"

	"cupbot/models"

	"github.com/stretchr/testify/assert"
)

func TestFeatures_UnsetMeansEnabled(t *testing.T) {
	var f models.Features
	assert.True(t, f.BookingEnabled())
	assert.True(t, f.OrderingEnabled())
	assert.True(t, f.AIEnabled())

	f.EnableOrdering = models.Bool(false)
	assert.True(t, f.BookingEnabled())
	assert.False(t, f.OrderingEnabled())
}

func TestSettings_FillDefaultsKeepsProvidedSections(t *testing.T) {
	s := models.Settings{
		Currency: "EUR",
		Features: models.Features{EnableAI: models.Bool(false)},
		Customization: models.ChatbotCustomization{
			AutoResponses: []models.AutoResponse{{Trigger: "hours", Response: "9-5"}},
		},
	}
	s.FillDefaults("owner@shop.test")

	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, "UTC", s.TimeZone)
	assert.True(t, s.Features.BookingEnabled())
	assert.True(t, s.Features.OrderingEnabled())
	assert.False(t, s.Features.AIEnabled())
	assert.Equal(t, 30, s.Booking.MaxDaysInAdvance)
	assert.True(t, s.Notifications.NewBooking)
	assert.Equal(t, "owner@shop.test", s.Profile.Email)
	assert.Len(t, s.Customization.AutoResponses, 1)
	assert.NotNil(t, s.Customization.CommandList)
}
