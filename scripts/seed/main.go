// Command seed inserts a sample business, or one read from a JSON file, when
// none exists yet.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cupbot/config"
	"cupbot/database"
	businessRepo "cupbot/database/repository/business"
	"cupbot/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "owner@example.com", "owner login email")
	password := flag.String("password", "", "owner login password (required)")
	file := flag.String("config", "", "optional JSON business document to seed instead of the sample")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal("seed: -password must be at least 8 characters")
	}

	config.LoadConfig()
	database.InitDB()
	defer database.CloseDB(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo := businessRepo.NewMongoBusinessRepo()
	if existing, err := repo.GetFirst(ctx); err == nil {
		fmt.Printf("Business already exists: %s (%s)\n", existing.Name, existing.ID)
		return
	} else if !errors.Is(err, businessRepo.ErrNotFound) {
		log.Fatalf("seed: failed to check for existing business: %v", err)
	}

	b := sampleBusiness(*email)
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("seed: failed to read %s: %v", *file, err)
		}
		b = &models.Business{}
		if err := json.Unmarshal(raw, b); err != nil {
			log.Fatalf("seed: invalid business document: %v", err)
		}
		b.OwnerEmail = *email
		b.Settings.FillDefaults(*email)
		fillIDs(b)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("seed: failed to hash password: %v", err)
	}
	b.PasswordHash = string(hashed)

	if err := repo.Create(ctx, b); err != nil {
		log.Fatalf("seed: failed to insert business: %v", err)
	}
	fmt.Printf("Business created: %s (%s)\n", b.Name, b.ID)
	fmt.Printf("Services configured: %d\n", len(b.Services))
	fmt.Printf("Working hours configured for: %d days\n", len(b.WorkingHours))
}

func sampleBusiness(email string) *models.Business {
	settings := models.DefaultSettings(email)
	settings.Customization = models.ChatbotCustomization{
		CommandList: []models.CustomCommand{
			{Command: "promo", Response: "🎉 10% off every haircut booked this week!", Description: "Current promotion", Enabled: true},
			{Command: "location", Response: "📍 1 Main St, next to the station.", Description: "Where to find us", Enabled: true},
			{Command: "wifi", Description: "Ask at the counter for the Wi-Fi password.", Enabled: true},
		},
		AutoResponses: []models.AutoResponse{
			{Trigger: "parking", Response: "Free parking is available behind the shop."},
			{Trigger: "card", Response: "We accept all major cards and contactless payments."},
		},
	}

	b := &models.Business{
		Name:         "Corner Cup",
		OwnerEmail:   email,
		Description:  "Neighbourhood coffee and grooming bar",
		BusinessType: "cafe",
		Services: []models.Service{
			{Name: "Haircut", Description: "Wash, cut and style", Price: 25, DurationMinutes: 30, Category: "Hair"},
			{Name: "Beard Trim", Description: "Shape and hot towel", Price: 15, DurationMinutes: 20, Category: "Hair"},
			{Name: "Coffee Tasting", Description: "Three single origins", Price: 12, DurationMinutes: 45, Category: "Experiences"},
		},
		Menu: models.Menu{Categories: []models.MenuCategory{
			{Name: "Coffee", Items: []models.MenuItem{
				{Name: "Flat White", Price: 3.8},
				{Name: "Espresso", Price: 2.5},
				{Name: "Cold Brew", Price: 4.2},
			}},
			{Name: "Pastry", Items: []models.MenuItem{
				{Name: "Croissant", Price: 2.9},
				{Name: "Cinnamon Roll", Price: 3.4},
			}},
		}},
		WorkingHours: models.DefaultWorkingHours(),
		ContactInfo: models.ContactInfo{
			Phone:   "+1 555 0100",
			Email:   email,
			Address: "1 Main St",
		},
		Settings: settings,
	}
	fillIDs(b)
	return b
}

// fillIDs assigns ids the document left blank and keeps item categories in
// line with the category they sit in.
func fillIDs(b *models.Business) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.OwnerEmail = strings.ToLower(b.OwnerEmail)
	for i := range b.Services {
		if b.Services[i].ID == "" {
			b.Services[i].ID = uuid.New().String()
		}
	}
	for ci := range b.Menu.Categories {
		cat := &b.Menu.Categories[ci]
		for ii := range cat.Items {
			if cat.Items[ii].ID == "" {
				cat.Items[ii].ID = uuid.New().String()
			}
			cat.Items[ii].Category = cat.Name
		}
	}
	if len(b.WorkingHours) == 0 {
		b.WorkingHours = models.DefaultWorkingHours()
	}
}
