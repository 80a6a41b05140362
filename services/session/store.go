package session

import (
	"context"

	"cupbot/models"
)

// Store keeps per-user conversational state. Get never fails with a not-found:
// unknown users get a fresh idle session.
type Store interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Update(ctx context.Context, userID int64, patch models.SessionPatch) (*models.Session, error)
	Clear(ctx context.Context, userID int64) error
}
