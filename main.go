package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cupbot/config"
	"cupbot/cron"
	"cupbot/database"
	"cupbot/database/repository"
	"cupbot/handlers"
	"cupbot/middleware"
	"cupbot/routes"
	"cupbot/services/booking"
	"cupbot/services/bot"
	"cupbot/services/business"
	"cupbot/services/catalog"
	"cupbot/services/customersvc"
	"cupbot/services/intelligence"
	"cupbot/services/notification"
	"cupbot/services/order"
	"cupbot/services/session"
	"cupbot/services/speech"
	"cupbot/services/storage"
	"cupbot/services/telegram"
	"cupbot/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.InitDB()
	utils.InitRedis()
	utils.StartHealthMonitor(ctx, 30*time.Second,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// repositories.
	bizRepo := repository.NewMongoBusinessRepo()
	custRepo := repository.NewMongoCustomerRepo()
	tokens := utils.NewTokenCache(utils.GetAuthCacheClient())

	// media storage is optional.
	var media storage.StorageService
	if cld, err := utils.Cloudinary(); err != nil {
		logger.Sugar().Warnf("main: logo uploads disabled: %v", err)
	} else {
		media = cld
	}

	// notifications.
	var notifier notification.Notifier = notification.NoopNotifier{}
	var queue *asynq.Client
	if cfg.NotificationsEnabled {
		queue = asynq.NewClient(cron.QueueRedisOpt())
		defer queue.Close()
		notifier = notification.NewQueueNotifier(queue, cfg.ReminderLead, utils.SystemClock{})
	}

	// conversation engine.
	var sessions session.Store
	if cfg.SessionBackend == "redis" {
		sessions = session.NewRedisStore(utils.GetCacheClient(), cfg.SessionTTL)
	} else {
		sessions = session.NewMemoryStore()
	}
	lookup := catalog.NewLookup(bizRepo)
	bookingFlow := booking.NewBookingFlow(lookup, custRepo, sessions, notifier, nil)
	orderFlow := order.NewOrderFlow(lookup, custRepo, sessions, notifier, nil)

	var generator intelligence.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := intelligence.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Sugar().Warnf("main: generated replies disabled: %v", err)
		} else {
			defer gemini.Close()
			generator = gemini
		}
	}
	router := bot.NewRouter(lookup, custRepo, sessions, bookingFlow, orderFlow, intelligence.NewChain(generator), cfg.HistoryLimit)

	// Telegram transport and the worker that sends through it.
	if cfg.TelegramBotToken != "" {
		api, err := telegram.NewBotAPI(cfg.TelegramBotToken, cfg.TelegramDebug)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}

		var transcriber speech.Transcriber
		if cfg.GoogleServiceAccountFile != "" {
			google, err := speech.NewGoogleTranscriber(ctx, cfg.GoogleServiceAccountFile, cfg.SpeechLanguage)
			if err != nil {
				logger.Sugar().Warnf("main: voice notes disabled: %v", err)
			} else {
				defer google.Close()
				transcriber = google
			}
		}

		tgBot := telegram.NewBot(api, router, transcriber, cfg.BusinessID)
		go func() {
			if err := tgBot.Run(ctx); err != nil {
				logger.Sugar().Errorf("main: telegram bot stopped: %v", err)
			}
		}()

		if queue != nil {
			err := cron.InitNotificationWorker(ctx, &cron.NotificationHandlers{
				Sender:     tgBot,
				Customers:  custRepo,
				Businesses: bizRepo,
			})
			if err != nil {
				logger.Sugar().Fatalf("main: %v", err)
			}
		}
	} else {
		logger.Sugar().Warn("main: TELEGRAM_BOT_TOKEN not set, running the management API only")
	}

	// management API.
	bizSvc := business.NewBusinessService(bizRepo, media, tokens)
	custSvc := customersvc.NewCustomerService(custRepo, bizRepo, notifier, nil)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.ErrorHandler())
	engine.Use(gin.Logger())
	engine.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(engine, handlers.NewHandlerBundle(bizSvc, custSvc), bizRepo, tokens, cfg.CORSOrigins)

	port := cfg.AppPort
	if port == "" {
		port = "3001"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: engine,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: failed to disconnect MongoDB: %v", err)
	}
	logger.Sugar().Info("main: server stopped gracefully")
	_ = logger.Sync()
}
