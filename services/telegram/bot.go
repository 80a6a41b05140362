package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cupbot/models"
	"cupbot/services/speech"
	"cupbot/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	pollTimeoutSeconds = 60
	msgVoiceFailed     = "Sorry, I couldn't understand that voice message."
)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Handler produces the reply to one inbound event.
type Handler interface {
	Handle(ctx context.Context, in models.Inbound) models.Reply
}

// Bot long-polls Telegram and feeds updates to a Handler one at a time.
type Bot struct {
	api         API
	handler     Handler
	transcriber speech.Transcriber
	businessID  string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewBotAPI connects to Telegram with a bot token.
func NewBotAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	api.Debug = debug
	return api, nil
}

// NewBot builds a bot. transcriber may be nil, in which case voice notes are
// answered with an apology.
func NewBot(api API, handler Handler, transcriber speech.Transcriber, businessID string) *Bot {
	return &Bot{
		api:         api,
		handler:     handler,
		transcriber: transcriber,
		businessID:  businessID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      utils.GetLogger(),
	}
}

// Run consumes updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("Telegram bot polling for updates", zap.String("businessID", b.businessID))
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot stopping")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate processes one update to completion.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if cq := upd.CallbackQuery; cq != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.logger.Warn("failed to acknowledge callback", zap.String("callbackID", cq.ID), zap.Error(err))
		}
	}

	in, ok := b.toInbound(upd)
	if !ok {
		if msg := upd.Message; msg != nil && msg.Voice != nil && msg.From != nil {
			b.handleVoice(ctx, msg)
		}
		return
	}
	b.dispatch(ctx, in)
}

func (b *Bot) dispatch(ctx context.Context, in models.Inbound) {
	reply := b.handler.Handle(ctx, in)
	if reply.Text == "" {
		return
	}
	if _, err := b.api.Send(render(in.ChatID, reply)); err != nil {
		b.logger.Error("failed to send reply", zap.Int64("chatID", in.ChatID), zap.Error(err))
	}
}

func (b *Bot) handleVoice(ctx context.Context, msg *tgbotapi.Message) {
	in := models.Inbound{
		BusinessID: b.businessID,
		UserID:     msg.From.ID,
		ChatID:     msg.Chat.ID,
		Profile:    profileOf(msg.From, msg.Chat.ID),
		Kind:       models.KindText,
	}

	text, err := b.transcribe(ctx, msg.Voice.FileID)
	if err != nil {
		b.logger.Warn("voice transcription failed", zap.Int64("userID", in.UserID), zap.Error(err))
		if err := b.Send(ctx, in.ChatID, msgVoiceFailed); err != nil {
			b.logger.Error("failed to send reply", zap.Int64("chatID", in.ChatID), zap.Error(err))
		}
		return
	}
	in.Text = text
	b.dispatch(ctx, in)
}

func (b *Bot) transcribe(ctx context.Context, fileID string) (string, error) {
	if b.transcriber == nil {
		return "", fmt.Errorf("voice transcription is not configured")
	}
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve voice file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download voice file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download voice file: status %d", resp.StatusCode)
	}
	audio, err := io.ReadAll(io.LimitReader(resp.Body, speech.MaxAudioBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read voice file: %w", err)
	}
	return b.transcriber.Transcribe(ctx, audio)
}

// Send implements notification.Sender.
func (b *Bot) Send(_ context.Context, chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// toInbound maps text, command and callback updates. Anything else, voice
// notes included, is reported as not handled here.
func (b *Bot) toInbound(upd tgbotapi.Update) (models.Inbound, bool) {
	if cq := upd.CallbackQuery; cq != nil {
		if cq.From == nil {
			return models.Inbound{}, false
		}
		chatID := cq.From.ID
		if cq.Message != nil && cq.Message.Chat != nil {
			chatID = cq.Message.Chat.ID
		}
		return models.Inbound{
			BusinessID:   b.businessID,
			UserID:       cq.From.ID,
			ChatID:       chatID,
			Profile:      profileOf(cq.From, chatID),
			Kind:         models.KindCallback,
			CallbackData: cq.Data,
		}, true
	}

	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return models.Inbound{}, false
	}
	in := models.Inbound{
		BusinessID: b.businessID,
		UserID:     msg.From.ID,
		ChatID:     msg.Chat.ID,
		Profile:    profileOf(msg.From, msg.Chat.ID),
		Kind:       models.KindText,
		Text:       msg.Text,
	}
	if msg.IsCommand() {
		in.Kind = models.KindCommand
		in.Command = msg.Command()
	}
	return in, true
}

func profileOf(u *tgbotapi.User, chatID int64) models.CustomerProfile {
	return models.CustomerProfile{
		TelegramID: u.ID,
		ChatID:     chatID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.UserName,
	}
}

// render builds the outgoing message. Inline keyboards win over reply
// keyboards. No parse mode is set, so owner-written text is sent verbatim.
func render(chatID int64, r models.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	switch {
	case len(r.Inline) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(r.Inline))
		for _, row := range r.Inline {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	case len(r.Keyboard) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(r.Keyboard))
		for _, row := range r.Keyboard {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.ResizeKeyboard = true
		msg.ReplyMarkup = kb
	}
	return msg
}
