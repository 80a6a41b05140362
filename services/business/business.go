package business

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	businessRepo "cupbot/database/repository/business"
	"cupbot/models"
	"cupbot/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const clockLayout = "15:04"

func (s *DefaultBusinessService) load(ctx context.Context, businessID string) (*models.Business, error) {
	b, err := s.Repo.GetByID(ctx, businessID)
	if errors.Is(err, businessRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *DefaultBusinessService) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	return s.load(ctx, businessID)
}

func (s *DefaultBusinessService) UpdateBusiness(ctx context.Context, businessID string, req UpdateBusinessRequest) (*models.Business, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if err := validateHours(req.WorkingHours); err != nil {
		return nil, err
	}
	services, err := normalizeServices(req.Services)
	if err != nil {
		return nil, err
	}
	menu, err := normalizeMenu(req.Menu)
	if err != nil {
		return nil, err
	}

	b.Name = name
	b.Description = strings.TrimSpace(req.Description)
	if t := strings.TrimSpace(req.BusinessType); t != "" {
		b.BusinessType = t
	}
	b.Services = services
	b.Menu = menu
	if len(req.WorkingHours) > 0 {
		b.WorkingHours = req.WorkingHours
	}
	b.ContactInfo = req.ContactInfo

	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	utils.GetLogger().Info("Business updated", zap.String("businessID", b.ID))
	return b, nil
}

// StorageEnabled reports whether logo uploads have somewhere to go.
func (s *DefaultBusinessService) StorageEnabled() bool { return s.Storage != nil }

func (s *DefaultBusinessService) UploadLogo(ctx context.Context, businessID string, file io.Reader) (*models.Business, error) {
	if !s.StorageEnabled() {
		return nil, ErrStorageDisabled
	}
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	url, _, err := s.Storage.UploadLogo(ctx, businessID, file)
	if err != nil {
		return nil, err
	}
	b.Settings.Theme.Logo = url
	if err := s.Repo.UpdateSettings(ctx, businessID, b.Settings); err != nil {
		return nil, fmt.Errorf("failed to save logo: %w", err)
	}
	return b, nil
}

func (s *DefaultBusinessService) GetSettings(ctx context.Context, businessID string) (*models.Settings, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &b.Settings, nil
}

func (s *DefaultBusinessService) UpdateSettings(ctx context.Context, businessID string, patch SettingsPatch) (*models.Settings, error) {
	b, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	settings := b.Settings

	if patch.AutoReply != nil {
		settings.AutoReply = *patch.AutoReply
	}
	if patch.WelcomeMessage != nil {
		settings.WelcomeMessage = *patch.WelcomeMessage
	}
	if patch.Languages != nil {
		settings.Languages = patch.Languages
	}
	if patch.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*patch.Currency))
		if len(c) != 3 {
			return nil, invalid("currency", "must be a three letter code")
		}
		settings.Currency = c
	}
	if patch.TimeZone != nil {
		if _, err := time.LoadLocation(*patch.TimeZone); err != nil {
			return nil, invalid("timeZone", "unknown time zone")
		}
		settings.TimeZone = *patch.TimeZone
	}
	if patch.Theme != nil {
		logo := settings.Theme.Logo
		settings.Theme = *patch.Theme
		if settings.Theme.Logo == "" {
			settings.Theme.Logo = logo
		}
	}
	if f := patch.Features; f != nil {
		if f.EnableBooking != nil {
			settings.Features.EnableBooking = f.EnableBooking
		}
		if f.EnableOrdering != nil {
			settings.Features.EnableOrdering = f.EnableOrdering
		}
		if f.EnableAI != nil {
			settings.Features.EnableAI = f.EnableAI
		}
	}
	if patch.Booking != nil {
		if patch.Booking.MaxDaysInAdvance < 0 || patch.Booking.MinNoticeHours < 0 {
			return nil, invalid("booking", "values must not be negative")
		}
		settings.Booking = *patch.Booking
	}
	if patch.Ordering != nil {
		if !utils.ValidPrice(patch.Ordering.MinimumOrder) {
			return nil, invalid("ordering.minimumOrder", "must be a non-negative amount")
		}
		settings.Ordering = *patch.Ordering
	}
	if patch.Notifications != nil {
		settings.Notifications = *patch.Notifications
	}
	if patch.Profile != nil {
		settings.Profile = *patch.Profile
	}

	if err := s.Repo.UpdateSettings(ctx, businessID, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return &settings, nil
}

func validateHours(hours []models.WorkingHours) error {
	seen := map[string]bool{}
	for _, h := range hours {
		if !isWeekday(h.Day) {
			return invalid("workingHours", fmt.Sprintf("unknown day %q", h.Day))
		}
		if seen[h.Day] {
			return invalid("workingHours", fmt.Sprintf("%s listed twice", h.Day))
		}
		seen[h.Day] = true
		if !h.IsOpen {
			continue
		}
		open, err := time.Parse(clockLayout, h.Open)
		if err != nil {
			return invalid("workingHours", fmt.Sprintf("%s: invalid open time %q", h.Day, h.Open))
		}
		closing, err := time.Parse(clockLayout, h.Close)
		if err != nil {
			return invalid("workingHours", fmt.Sprintf("%s: invalid close time %q", h.Day, h.Close))
		}
		if !open.Before(closing) {
			return invalid("workingHours", fmt.Sprintf("%s: open must be before close", h.Day))
		}
	}
	return nil
}

func isWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

func normalizeServices(in []models.Service) ([]models.Service, error) {
	out := make([]models.Service, 0, len(in))
	for _, svc := range in {
		svc.Name = strings.TrimSpace(svc.Name)
		if svc.Name == "" {
			return nil, invalid("services", "every service needs a name")
		}
		if !utils.ValidPrice(svc.Price) {
			return nil, invalid("services", fmt.Sprintf("%s: invalid price", svc.Name))
		}
		if svc.DurationMinutes < 0 {
			return nil, invalid("services", fmt.Sprintf("%s: invalid duration", svc.Name))
		}
		if svc.ID == "" {
			svc.ID = uuid.New().String()
		}
		out = append(out, svc)
	}
	return out, nil
}

func normalizeMenu(in models.Menu) (models.Menu, error) {
	out := models.Menu{Categories: make([]models.MenuCategory, 0, len(in.Categories))}
	for _, cat := range in.Categories {
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Name == "" {
			return models.Menu{}, invalid("menu", "every category needs a name")
		}
		items := make([]models.MenuItem, 0, len(cat.Items))
		for _, item := range cat.Items {
			item.Name = strings.TrimSpace(item.Name)
			if item.Name == "" {
				return models.Menu{}, invalid("menu", fmt.Sprintf("%s: every item needs a name", cat.Name))
			}
			if !utils.ValidPrice(item.Price) {
				return models.Menu{}, invalid("menu", fmt.Sprintf("%s: invalid price", item.Name))
			}
			if item.ID == "" {
				item.ID = uuid.New().String()
			}
			item.Category = cat.Name
			items = append(items, item)
		}
		cat.Items = items
		out.Categories = append(out.Categories, cat)
	}
	return out, nil
}
