package telegram

import (
	"context"
	"fmt"

	"github.com/futig/realty-advisor/internal/config"
	"github.com/futig/realty-advisor/internal/telegram/bot"
	"github.com/futig/realty-advisor/internal/telegram/handlers"
	"github.com/futig/realty-advisor/internal/telegram/keyboard"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	answerer handlers.Answerer,
	validator handlers.QueryValidator,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, keyboard.NewBuilder(keyboard.ExampleQuestions), logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	registerHandlers(b, answerer, validator, logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(b *bot.Bot, answerer handlers.Answerer, validator handlers.QueryValidator, logger *zap.Logger) {
	api := b.GetAPI()

	// Free-text questions
	questionHandler := handlers.NewQuestionHandler(api, answerer, validator, logger)
	b.RegisterHandler(questionHandler)

	// Example question buttons
	callbackHandler := handlers.NewCallbackHandler(api, b.GetKeyboard(), questionHandler, logger)
	b.RegisterHandler(callbackHandler)

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", 2),
	)
}
