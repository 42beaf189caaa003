package handlers

import (
	"context"
	"fmt"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/pkg/logger"
	"github.com/futig/realty-advisor/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QuestionHandler answers free-text messages through the RAG pipeline
type QuestionHandler struct {
	BaseHandler
	bot       Sender
	answerer  Answerer
	validator QueryValidator
	logger    *zap.Logger
}

func NewQuestionHandler(
	bot Sender,
	answerer Answerer,
	validator QueryValidator,
	logger *zap.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: BaseHandler{
			kind:          KindText,
			messageSender: NewMessageSender(bot, logger),
		},
		bot:       bot,
		answerer:  answerer,
		validator: validator,
		logger:    logger,
	}
}

// Handle validates the question, shows a typing indicator while the answer
// is generated and sends the answer split into Telegram-sized parts. User
// facing failures are reported in the chat and not returned.
func (h *QuestionHandler) Handle(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "telegram_question")
	ctx = logger.AddFields(ctx, zap.Int64("chat_id", msg.ChatID))

	if err := h.validator.ValidateQuery(&entity.QueryRequest{Query: msg.Text}); err != nil {
		ctxzap.Debug(ctx, "question rejected", zap.Error(err))
		h.sendMessage(msg.ChatID, render.ClassifyError(err), nil)
		return nil
	}

	typing := NewTypingNotifier(h.bot, msg.ChatID, h.logger)
	typing.Start(ctx)
	answer, err := h.answerer.Answer(ctx, msg.Text)
	typing.Stop()

	if err != nil {
		ctxzap.Error(ctx, "failed to answer question", zap.Error(err))
		h.sendMessage(msg.ChatID, render.ClassifyError(err), nil)
		return nil
	}

	for _, part := range render.SplitMessage(answer, render.MaxMessageLength) {
		if err := h.messageSender.Send(msg.ChatID, part, nil); err != nil {
			return fmt.Errorf("send answer: %w", err)
		}
	}

	return nil
}
