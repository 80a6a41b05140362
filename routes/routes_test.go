package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cupbot/handlers"
	"cupbot/models"
	"cupbot/routes"
	"cupbot/services/business"
	"cupbot/services/customersvc"
	"cupbot/testutil"
	"cupbot/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type APISuite struct {
	suite.Suite
	router    *gin.Engine
	customers *testutil.CustomerRepo
	notifier  *testutil.Notifier
	token     string
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(s.T())
	cache := utils.NewTokenCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	businesses := testutil.NewBusinessRepo()
	s.customers = testutil.NewCustomerRepo()
	s.notifier = &testutil.Notifier{}

	bizSvc := business.NewBusinessService(businesses, nil, cache)
	custSvc := customersvc.NewCustomerService(s.customers, businesses, s.notifier, testutil.FixedClock{T: testutil.SundayMorning})

	s.router = gin.New()
	s.router.Use(utils.ErrorHandler())
	routes.RegisterRoutes(s.router, handlers.NewHandlerBundle(bizSvc, custSvc), businesses, cache, nil)

	w := s.do(http.MethodPost, "/api/register", map[string]string{
		"email":        "owner@shop.test",
		"password":     "s3cret-pass",
		"businessName": "Shop",
	}, false)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token    string          `json:"token"`
		Business models.Business `json:"business"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.token = res.Token
}

func (s *APISuite) do(method, path string, body interface{}, auth bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) businessID() string {
	w := s.do(http.MethodGet, "/api/business", nil, true)
	s.Require().Equal(http.StatusOK, w.Code)
	var b models.Business
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &b))
	return b.ID
}

func (s *APISuite) TestAuth() {
	w := s.do(http.MethodPost, "/api/register", map[string]string{
		"email": "OWNER@shop.test", "password": "another-pass", "businessName": "Copy",
	}, false)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/login", map[string]string{"email": "owner@shop.test", "password": "wrong"}, false)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/login", map[string]string{"email": "owner@shop.test", "password": "s3cret-pass"}, false)
	s.Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "passwordHash")

	w = s.do(http.MethodPost, "/api/login", map[string]string{"email": "owner@shop.test"}, false)
	s.Equal(http.StatusBadRequest, w.Code)

	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/business", nil, false).Code)
}

func (s *APISuite) TestBusinessAndSettings() {
	w := s.do(http.MethodPut, "/api/business", map[string]interface{}{
		"name": "Shop & Co",
		"services": []map[string]interface{}{
			{"name": "Haircut", "price": 25},
		},
		"workingHours": []map[string]interface{}{
			{"day": "Monday", "open": "17:00", "close": "09:00", "isOpen": true},
		},
	}, true)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/business", map[string]interface{}{
		"name":     "Shop & Co",
		"services": []map[string]interface{}{{"name": "Haircut", "price": 25}},
	}, true)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var b models.Business
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &b))
	s.NotEmpty(b.Services[0].ID)
	s.Len(b.WorkingHours, 7, "omitted hours are kept")

	w = s.do(http.MethodPatch, "/api/settings", map[string]interface{}{
		"welcomeMessage": "Hi there",
		"features":       map[string]bool{"enableBooking": true, "enableOrdering": false, "enableAI": false},
	}, true)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/settings", nil, true)
	var settings models.Settings
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &settings))
	s.Equal("Hi there", settings.WelcomeMessage)
	s.False(settings.Features.OrderingEnabled())
	s.True(settings.AutoReply)
}

func (s *APISuite) TestLogoWithoutStorage() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "logo.png")
	s.Require().NoError(err)
	_, _ = part.Write([]byte("png"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/business/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodPost, "/api/business/logo", nil, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestBookingLifecycle() {
	bizID := s.businessID()
	c, err := s.customers.UpsertInteraction(context.Background(), bizID, testutil.Profile(42), models.Interaction{Type: models.InteractionCommand, Message: "/start"})
	s.Require().NoError(err)
	s.Require().NoError(s.customers.AppendBooking(context.Background(), c.ID, models.Booking{
		ID: "bk-1", ServiceName: "Haircut", Status: models.StatusPending,
		Date: time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC),
	}))

	w := s.do(http.MethodGet, "/api/bookings", nil, true)
	s.Require().Equal(http.StatusOK, w.Code)
	var views []models.BookingView
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &views))
	s.Require().Len(views, 1)
	s.Equal("Ada Lovelace", views[0].CustomerName)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/bookings?status=lost", nil, true).Code)
	s.Equal(http.StatusConflict, s.do(http.MethodPatch, "/api/bookings/bk-1", map[string]string{"status": "completed"}, true).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPatch, "/api/bookings/missing", map[string]string{"status": "confirmed"}, true).Code)

	w = s.do(http.MethodPatch, "/api/bookings/bk-1", map[string]string{"status": "confirmed"}, true)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(s.notifier.BookingChanges, 1)

	w = s.do(http.MethodGet, "/api/bookings?status=confirmed", nil, true)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &views))
	s.Len(views, 1)

	w = s.do(http.MethodGet, "/api/analytics", nil, true)
	s.Require().Equal(http.StatusOK, w.Code)
	var a models.Analytics
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &a))
	s.Equal(1, a.TotalCustomers)
	s.Equal(1, a.TotalBookings)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/customers/nope", nil, true).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/customers/"+c.ID, nil, true).Code)
}

func (s *APISuite) TestChatbotCustomization() {
	w := s.do(http.MethodPost, "/api/chatbot/commands", map[string]interface{}{
		"command": "/promo", "response": "10% off", "enabled": true,
	}, true)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/api/chatbot/commands", map[string]interface{}{
		"command": "promo", "response": "again",
	}, true).Code)

	w = s.do(http.MethodPut, "/api/chatbot/commands/promo", map[string]interface{}{"response": "20% off", "enabled": true}, true)
	s.Require().Equal(http.StatusOK, w.Code)
	var cmds []models.CustomCommand
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &cmds))
	s.Equal("20% off", cmds[0].Response)

	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/chatbot/responses", map[string]string{
		"trigger": "hours", "response": "We are open 9-5",
	}, true).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/chatbot/responses/parking", nil, true).Code)

	w = s.do(http.MethodGet, "/api/chatbot/settings", nil, true)
	var got business.ChatbotSettings
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Len(got.CommandList, 1)
	s.Len(got.AutoResponses, 1)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/chatbot/commands/promo", nil, true).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/chatbot/commands/promo", nil, true).Code)
}

func TestHealthRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.RegisterHealthRoute(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	// No monitor has run, so nothing is known to be healthy.
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}

type logoStore struct {
	uploaded []byte
}

func (l *logoStore) UploadLogo(_ context.Context, businessID string, file io.Reader) (string, string, error) {
	body, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	l.uploaded = body
	return "https://cdn.test/" + businessID + ".png", "cupbot/logos/" + businessID, nil
}

func (l *logoStore) DeleteFile(context.Context, string) error { return nil }

func uploadLogo(r *gin.Engine, token string, body []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "logo.bin")
	_, _ = part.Write(body)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/business/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogoUploadDetectsImageType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	cache := utils.NewTokenCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	businesses := testutil.NewBusinessRepo()
	media := &logoStore{}

	bizSvc := business.NewBusinessService(businesses, media, cache)
	custSvc := customersvc.NewCustomerService(testutil.NewCustomerRepo(), businesses, &testutil.Notifier{}, testutil.FixedClock{T: testutil.SundayMorning})
	r := gin.New()
	routes.RegisterRoutes(r, handlers.NewHandlerBundle(bizSvc, custSvc), businesses, cache, nil)

	res, err := bizSvc.Register(context.Background(), business.RegisterRequest{
		Email: "logo@shop.test", Password: "s3cret-pass", BusinessName: "Logo Shop",
	})
	require.NoError(t, err)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	w := uploadLogo(r, res.Token, png)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, png, media.uploaded)
	assert.Contains(t, w.Body.String(), "https://cdn.test/")

	w = uploadLogo(r, res.Token, []byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
