package routes

import (
	"time"

	businessRepo "cupbot/database/repository/business"
	"cupbot/handlers"
	"cupbot/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public owner account endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/register", hb.RegisterHandler)
	api.POST("/login", hb.LoginHandler)
}

// RegisterBusinessRoutes registers business profile and settings endpoints.
func RegisterBusinessRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/business", hb.GetBusinessHandler)
	api.PUT("/business", hb.UpdateBusinessHandler)
	api.POST("/business/logo", hb.UploadLogoHandler)
	api.GET("/settings", hb.GetSettingsHandler)
	api.PATCH("/settings", hb.UpdateSettingsHandler)
}

// RegisterCustomerRoutes registers customers, bookings, orders and analytics.
func RegisterCustomerRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/customers", hb.ListCustomersHandler)
	api.GET("/customers/:id", hb.GetCustomerHandler)
	api.GET("/bookings", hb.ListBookingsHandler)
	api.PATCH("/bookings/:id", hb.UpdateBookingStatusHandler)
	api.GET("/orders", hb.ListOrdersHandler)
	api.PATCH("/orders/:id", hb.UpdateOrderStatusHandler)
	api.GET("/analytics", hb.AnalyticsHandler)
}

// RegisterChatbotRoutes registers chatbot customization endpoints.
func RegisterChatbotRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	chatbot := api.Group("/chatbot")
	{
		chatbot.GET("/commands", hb.ListCommandsHandler)
		chatbot.POST("/commands", hb.AddCommandHandler)
		chatbot.PUT("/commands/:command", hb.UpdateCommandHandler)
		chatbot.DELETE("/commands/:command", hb.DeleteCommandHandler)
		chatbot.GET("/responses", hb.ListAutoResponsesHandler)
		chatbot.POST("/responses", hb.AddAutoResponseHandler)
		chatbot.DELETE("/responses/:trigger", hb.DeleteAutoResponseHandler)
		chatbot.GET("/settings", hb.ChatbotSettingsHandler)
		chatbot.PATCH("/settings", hb.UpdateChatbotSettingsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, repo businessRepo.BusinessRepository, cache middleware.TokenCache, origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	api := r.Group("/api")
	RegisterAuthRoutes(api, hb)

	protected := api.Group("")
	protected.Use(middleware.BusinessAuthMiddleware(repo, cache))
	RegisterBusinessRoutes(protected, hb)
	RegisterCustomerRoutes(protected, hb)
	RegisterChatbotRoutes(protected, hb)
}
