package business

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	businessRepo "cupbot/database/repository/business"
	"cupbot/models"
	"cupbot/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

func (s *DefaultBusinessService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	name := strings.TrimSpace(req.BusinessName)
	if name == "" {
		return nil, invalid("businessName", "is required")
	}
	businessType := strings.TrimSpace(req.BusinessType)
	if businessType == "" {
		businessType = "service"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	b := &models.Business{
		ID:           uuid.New().String(),
		Name:         name,
		OwnerEmail:   email,
		PasswordHash: string(hash),
		Description:  strings.TrimSpace(req.Description),
		BusinessType: businessType,
		Services:     []models.Service{},
		Menu:         models.Menu{Categories: []models.MenuCategory{}},
		WorkingHours: models.DefaultWorkingHours(),
		ContactInfo:  models.ContactInfo{Email: email},
		Settings:     models.DefaultSettings(email),
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		if errors.Is(err, businessRepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	utils.GetLogger().Info("Business registered", zap.String("businessID", b.ID), zap.String("email", email))

	return s.issue(ctx, b)
}

func (s *DefaultBusinessService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	b, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, businessRepo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		utils.GetLogger().Error("Login: failed to fetch business", zap.Error(err))
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, b)
}

// issue signs a token and remembers it in the auth cache. A cache failure is
// not fatal: the middleware falls back to the repository.
func (s *DefaultBusinessService) issue(ctx context.Context, b *models.Business) (*AuthResponse, error) {
	token, err := utils.GenerateToken(b.ID, b.OwnerEmail, utils.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if s.Tokens != nil {
		if err := s.Tokens.Remember(ctx, b.ID, utils.HashToken(token)); err != nil {
			utils.GetLogger().Warn("failed to cache auth token", zap.String("businessID", b.ID), zap.Error(err))
		}
	}
	return &AuthResponse{Token: token, Business: b}, nil
}
