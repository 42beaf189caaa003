package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/pkg/logger"
	"github.com/futig/realty-advisor/internal/telegram/handlers"
	"github.com/futig/realty-advisor/internal/telegram/keyboard"
	"github.com/futig/realty-advisor/internal/telegram/middleware"
	"github.com/futig/realty-advisor/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// API is the subset of *tgbotapi.BotAPI the bot depends on
type API interface {
	handlers.Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	handlers    map[string]handlers.Handler
	keyboard    *keyboard.Builder
	sender      *handlers.MessageSender
	logger      *zap.Logger
	pipeline    func(tgbotapi.Update)
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once

	// mu orders wg.Add in spawn against wg.Wait in Stop
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// New authorizes against the Telegram API and creates the bot
func New(cfg *config.TelegramConfig, kb *keyboard.Builder, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return NewWithAPI(api, cfg, kb, logger), nil
}

// NewWithAPI creates the bot over an already authorized client
func NewWithAPI(api API, cfg *config.TelegramConfig, kb *keyboard.Builder, logger *zap.Logger) *Bot {
	b := &Bot{
		api:      api,
		cfg:      cfg,
		keyboard: kb,
		sender:   handlers.NewMessageSender(api, logger),
		logger:   logger,
		handlers: make(map[string]handlers.Handler),
		stopChan: make(chan struct{}),
	}

	// Rate limiter runs first so throttled updates are not logged twice
	b.pipeline = middleware.Chain(
		b.handleUpdate,
		middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewRecoveryMiddleware(logger, api),
	)

	return b
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = logger.Into(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		b.mu.Lock()
		b.stopped = true
		close(b.stopChan)
		b.mu.Unlock()
	})
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates handles every update in its own goroutine
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				ctxzap.Info(ctx, "updates channel closed")
				return
			}
			if !b.spawn(update) {
				return
			}
		}
	}
}

// spawn runs the pipeline for u in a new goroutine unless Stop was called.
func (b *Bot) spawn(u tgbotapi.Update) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return false
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.pipeline(u)
	}()
	return true
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := logger.Into(context.Background(), b.logger)

	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil && update.CallbackQuery.Message != nil:
		q := update.CallbackQuery
		b.dispatch(ctx, handlers.KindCallback, &handlers.Message{
			ChatID:       q.Message.Chat.ID,
			UserID:       q.From.ID,
			MessageID:    q.Message.MessageID,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		})
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		msg := &handlers.Message{
			ChatID:    update.Message.Chat.ID,
			MessageID: update.Message.MessageID,
			Text:      update.Message.Text,
		}
		if update.Message.From != nil {
			msg.UserID = update.Message.From.ID
		}
		b.dispatch(ctx, handlers.KindText, msg)
	}
}

func (b *Bot) dispatch(ctx context.Context, kind string, msg *handlers.Message) {
	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for update kind", zap.String("kind", kind))
		b.sendError(msg.ChatID, render.ErrGeneric)
		return
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("kind", kind),
			zap.Int64("user_id", msg.UserID),
		)
		b.sendError(msg.ChatID, render.ErrGeneric)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("chat_id", chatID),
	)

	var err error
	switch command {
	case "start":
		err = b.sender.Send(chatID, render.MsgWelcome, b.keyboard.ExamplesKeyboard())
	case "help":
		err = b.sender.Send(chatID, render.MsgHelp, nil)
	default:
		err = b.sender.Send(chatID, render.ErrUnknownCommand, nil)
	}
	if err != nil {
		ctxzap.Error(ctx, "failed to answer command",
			zap.Error(err),
			zap.String("command", command),
		)
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	_ = b.sender.Send(chatID, text, nil)
}

// RegisterHandler registers a handler for its update kind
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	kind := handler.Kind()
	if !handlers.IsValidKind(kind) {
		b.logger.Error("attempted to register handler with invalid kind",
			zap.String("kind", kind),
		)
		return
	}

	b.handlers[kind] = handler
	b.logger.Debug("handler registered", zap.String("kind", kind))
}

// GetAPI returns the Telegram client
func (b *Bot) GetAPI() API {
	return b.api
}

// GetKeyboard returns the keyboard builder
func (b *Bot) GetKeyboard() *keyboard.Builder {
	return b.keyboard
}
