package business

import (
	"context"
	"errors"
	"io"

	businessRepo "cupbot/database/repository/business"
	"cupbot/models"
	"cupbot/services/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("business not found")
	ErrDuplicateCommand   = errors.New("command already exists")
	ErrCommandNotFound    = errors.New("command not found")
	ErrDuplicateTrigger   = errors.New("auto-response trigger already exists")
	ErrTriggerNotFound    = errors.New("auto-response not found")
	ErrStorageDisabled    = errors.New("media storage is not configured")
)

// ValidationError is a client mistake in a request body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// BusinessService covers owner accounts, business configuration and chatbot
// customization.
type BusinessService interface {
	// Auth
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)

	// Business profile
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	UpdateBusiness(ctx context.Context, businessID string, req UpdateBusinessRequest) (*models.Business, error)
	UploadLogo(ctx context.Context, businessID string, file io.Reader) (*models.Business, error)
	StorageEnabled() bool

	// Settings
	GetSettings(ctx context.Context, businessID string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, businessID string, patch SettingsPatch) (*models.Settings, error)

	// Chatbot customization
	ListCommands(ctx context.Context, businessID string) ([]models.CustomCommand, error)
	AddCommand(ctx context.Context, businessID string, cmd models.CustomCommand) ([]models.CustomCommand, error)
	UpdateCommand(ctx context.Context, businessID, command string, cmd models.CustomCommand) ([]models.CustomCommand, error)
	DeleteCommand(ctx context.Context, businessID, command string) ([]models.CustomCommand, error)
	ListAutoResponses(ctx context.Context, businessID string) ([]models.AutoResponse, error)
	AddAutoResponse(ctx context.Context, businessID string, ar models.AutoResponse) ([]models.AutoResponse, error)
	DeleteAutoResponse(ctx context.Context, businessID, trigger string) ([]models.AutoResponse, error)
	ChatbotSettings(ctx context.Context, businessID string) (*ChatbotSettings, error)
	UpdateChatbotSettings(ctx context.Context, businessID string, patch ChatbotSettingsPatch) (*ChatbotSettings, error)
}

// TokenStore remembers issued tokens so the auth middleware can skip the database.
type TokenStore interface {
	Remember(ctx context.Context, businessID, tokenHash string) error
}

// DefaultBusinessService is the production implementation.
type DefaultBusinessService struct {
	Repo    businessRepo.BusinessRepository
	Storage storage.StorageService
	Tokens  TokenStore
}

func NewBusinessService(repo businessRepo.BusinessRepository, store storage.StorageService, tokens TokenStore) *DefaultBusinessService {
	return &DefaultBusinessService{Repo: repo, Storage: store, Tokens: tokens}
}

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
	BusinessType string `json:"businessType"`
	Description  string `json:"description"`
}

// AuthResponse carries the dashboard token and the business it grants.
type AuthResponse struct {
	Token    string           `json:"token"`
	Business *models.Business `json:"business"`
}

// UpdateBusinessRequest replaces the editable parts of a business.
type UpdateBusinessRequest struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	BusinessType string                `json:"businessType"`
	Services     []models.Service      `json:"services"`
	Menu         models.Menu           `json:"menu"`
	WorkingHours []models.WorkingHours `json:"workingHours"`
	ContactInfo  models.ContactInfo    `json:"contactInfo"`
}

// SettingsPatch is a partial settings update. Nil sections are kept.
type SettingsPatch struct {
	AutoReply      *bool                        `json:"autoReply"`
	WelcomeMessage *string                      `json:"welcomeMessage"`
	Languages      []string                     `json:"languages"`
	Currency       *string                      `json:"currency"`
	TimeZone       *string                      `json:"timeZone"`
	Theme          *models.Theme                `json:"theme"`
	Features       *models.Features             `json:"features"`
	Booking        *models.BookingSettings      `json:"booking"`
	Ordering       *models.OrderingSettings     `json:"ordering"`
	Notifications  *models.NotificationSettings `json:"notifications"`
	Profile        *models.OwnerProfile         `json:"profile"`
}

type ChatbotSettings struct {
	CommandList   []models.CustomCommand `json:"commandList"`
	AutoResponses []models.AutoResponse  `json:"autoResponses"`
}

// ChatbotSettingsPatch replaces whichever list is present.
type ChatbotSettingsPatch struct {
	CommandList   []models.CustomCommand `json:"commandList"`
	AutoResponses []models.AutoResponse  `json:"autoResponses"`
}
