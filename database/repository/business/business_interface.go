package businessRepo

import (
	"context"
	"errors"

	"cupbot/models"
)

// ErrNotFound is returned when no business matches.
var ErrNotFound = errors.New("business not found")

// ErrDuplicateEmail is returned when an owner email is already registered.
var ErrDuplicateEmail = errors.New("business with this email already exists")

// BusinessRepository defines methods for business data access.
type BusinessRepository interface {
	// GetByID retrieves a business by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Business, error)
	// GetFirst retrieves the oldest business. Used by single-tenant bots.
	GetFirst(ctx context.Context) (*models.Business, error)
	// GetByEmail retrieves a business by its owner's email.
	GetByEmail(ctx context.Context, email string) (*models.Business, error)
	// Create inserts a new business.
	Create(ctx context.Context, b *models.Business) error
	// Update replaces an existing business.
	Update(ctx context.Context, b *models.Business) error
	// UpdateSettings replaces only the settings sub-document.
	UpdateSettings(ctx context.Context, id string, settings models.Settings) error
}
