package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	businessRepo "cupbot/database/repository/business"
	"cupbot/models"
)

var (
	// ErrBusinessNotFound aborts a whole flow.
	ErrBusinessNotFound = errors.New("business not found")

	// The rest re-prompt the user.
	ErrServiceNotFound  = errors.New("service not found")
	ErrItemNotFound     = errors.New("menu item not found")
	ErrCategoryNotFound = errors.New("menu category not found")
	ErrHoursNotFound    = errors.New("working hours not found")
)

// DefaultCategory groups services without one.
const DefaultCategory = "Other"

// BusinessSource is the part of the business repository the catalog reads.
type BusinessSource interface {
	GetByID(ctx context.Context, id string) (*models.Business, error)
	GetFirst(ctx context.Context) (*models.Business, error)
}

// Lookup is a read-only view over business configuration.
type Lookup struct {
	source BusinessSource
}

func NewLookup(source BusinessSource) *Lookup {
	return &Lookup{source: source}
}

// Business loads a business. An empty id resolves to the first business.
func (l *Lookup) Business(ctx context.Context, businessID string) (*models.Business, error) {
	var (
		b   *models.Business
		err error
	)
	if businessID == "" {
		b, err = l.source.GetFirst(ctx)
	} else {
		b, err = l.source.GetByID(ctx, businessID)
	}
	if errors.Is(err, businessRepo.ErrNotFound) || (err == nil && b == nil) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load business: %w", err)
	}
	return b, nil
}

func (l *Lookup) ListServices(ctx context.Context, businessID string) ([]models.Service, error) {
	b, err := l.Business(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return b.Services, nil
}

func (l *Lookup) FindService(ctx context.Context, businessID, serviceID string) (*models.Service, error) {
	services, err := l.ListServices(ctx, businessID)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if services[i].ID == serviceID {
			return &services[i], nil
		}
	}
	return nil, ErrServiceNotFound
}

func (l *Lookup) ListMenuCategories(ctx context.Context, businessID string) ([]models.MenuCategory, error) {
	b, err := l.Business(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return b.Menu.Categories, nil
}

// MenuCategoryAt returns the category at its position in the menu.
func (l *Lookup) MenuCategoryAt(ctx context.Context, businessID string, index int) (*models.MenuCategory, error) {
	cats, err := l.ListMenuCategories(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cats) {
		return nil, ErrCategoryNotFound
	}
	return &cats[index], nil
}

func (l *Lookup) FindMenuItem(ctx context.Context, businessID, itemID string) (*models.MenuItem, error) {
	cats, err := l.ListMenuCategories(ctx, businessID)
	if err != nil {
		return nil, err
	}
	for _, cat := range cats {
		for i := range cat.Items {
			if cat.Items[i].ID == itemID {
				item := cat.Items[i]
				if item.Category == "" {
					item.Category = cat.Name
				}
				return &item, nil
			}
		}
	}
	return nil, ErrItemNotFound
}

func (l *Lookup) WorkingHoursFor(ctx context.Context, businessID string, day time.Weekday) (*models.WorkingHours, error) {
	b, err := l.Business(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return HoursFor(b, day)
}

// HoursFor finds the entry for a weekday, matching day names case-insensitively.
func HoursFor(b *models.Business, day time.Weekday) (*models.WorkingHours, error) {
	for i := range b.WorkingHours {
		if strings.EqualFold(b.WorkingHours[i].Day, day.String()) {
			return &b.WorkingHours[i], nil
		}
	}
	return nil, ErrHoursNotFound
}

// Location is the business time zone, UTC when unset or unknown.
func Location(b *models.Business) *time.Location {
	if b == nil || b.Settings.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Settings.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ServiceGroup is one category of services in display order.
type ServiceGroup struct {
	Category string
	Services []models.Service
}

// GroupServices groups services by category, keeping first-appearance order.
func GroupServices(services []models.Service) []ServiceGroup {
	var groups []ServiceGroup
	index := map[string]int{}
	for _, s := range services {
		cat := s.Category
		if cat == "" {
			cat = DefaultCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, ServiceGroup{Category: cat})
		}
		groups[i].Services = append(groups[i].Services, s)
	}
	return groups
}
