package cron

import (
	"context"
	"errors"
	"fmt"

	"cupbot/config"
	businessRepo "cupbot/database/repository/business"
	customerRepo "cupbot/database/repository/customer"
	"cupbot/models"
	"cupbot/services/catalog"
	"cupbot/services/notification"
	"cupbot/services/tasks"
	"cupbot/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationHandlers processes queued notification tasks.
type NotificationHandlers struct {
	Sender     notification.Sender
	Customers  customerRepo.CustomerRepository
	Businesses businessRepo.BusinessRepository
	Logger     *zap.Logger
}

// Mux routes each task type to its handler.
func (h *NotificationHandlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendMessage, h.HandleMessage)
	mux.HandleFunc(tasks.TypeSendReminder, h.HandleReminder)
	return mux
}

func (h *NotificationHandlers) HandleMessage(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParseMessage(t)
	if err != nil {
		return fmt.Errorf("invalid message payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.ChatID == 0 || p.Text == "" {
		return fmt.Errorf("empty message task: %w", asynq.SkipRetry)
	}
	if err := h.Sender.Send(ctx, p.ChatID, p.Text); err != nil {
		h.Logger.Error("failed to deliver message", zap.String("kind", p.Kind), zap.Int64("chatID", p.ChatID), zap.Error(err))
		return err
	}
	h.Logger.Info("message delivered", zap.String("kind", p.Kind), zap.Int64("chatID", p.ChatID))
	return nil
}

// HandleReminder sends a reminder only while the booking is still confirmed.
func (h *NotificationHandlers) HandleReminder(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParseReminder(t)
	if err != nil {
		return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	booking, err := h.Customers.GetBooking(ctx, p.BusinessID, p.BookingID)
	if errors.Is(err, customerRepo.ErrNotFound) {
		h.Logger.Info("reminder dropped, booking gone", zap.String("bookingID", p.BookingID))
		return nil
	}
	if err != nil {
		return err
	}
	if booking.Status != models.StatusConfirmed {
		h.Logger.Info("reminder dropped", zap.String("bookingID", p.BookingID), zap.String("status", booking.Status))
		return nil
	}

	loc := catalog.Location(nil)
	if b, err := h.Businesses.GetByID(ctx, p.BusinessID); err == nil {
		loc = catalog.Location(b)
	}
	at := booking.Date.In(loc)
	text := fmt.Sprintf("⏰ Reminder: your %s booking is on %s at %s.",
		booking.ServiceName, at.Format("January 2, 2006"), at.Format("3:04 PM"))

	chatID := booking.ChatID
	if chatID == 0 {
		chatID = p.ChatID
	}
	if err := h.Sender.Send(ctx, chatID, text); err != nil {
		h.Logger.Error("failed to deliver reminder", zap.String("bookingID", p.BookingID), zap.Error(err))
		return err
	}
	return nil
}

// QueueRedisOpt is the asynq connection for the notification queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitNotificationWorker starts the asynq server in the background and shuts
// it down when ctx is done.
func InitNotificationWorker(ctx context.Context, h *NotificationHandlers) error {
	logger := utils.GetLogger()
	if h.Logger == nil {
		h.Logger = logger
	}

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	if err := srv.Start(h.Mux()); err != nil {
		return fmt.Errorf("failed to start notification worker: %w", err)
	}
	logger.Sugar().Infof("[NotificationWorker] started on redis db %d", config.AppConfig.RedisQueueDB)

	go func() {
		<-ctx.Done()
		srv.Shutdown()
		logger.Sugar().Info("[NotificationWorker] stopped")
	}()
	return nil
}
