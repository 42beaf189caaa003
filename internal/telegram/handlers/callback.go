package handlers

import (
	"context"
	"fmt"

	"github.com/futig/realty-advisor/internal/telegram/keyboard"
	"github.com/futig/realty-advisor/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles inline button presses. An "ask" button is
// answered as if the user had typed the example question.
type CallbackHandler struct {
	BaseHandler
	keyboard  *keyboard.Builder
	questions *QuestionHandler
}

func NewCallbackHandler(
	bot Sender,
	kb *keyboard.Builder,
	questions *QuestionHandler,
	logger *zap.Logger,
) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			kind:          KindCallback,
			messageSender: NewMessageSender(bot, logger),
		},
		keyboard:  kb,
		questions: questions,
	}
}

// Handle implements Handler
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		h.messageSender.AnswerCallback(msg.CallbackID, "")
		return err
	}

	switch data.Action {
	case keyboard.ActionAsk:
		idx, err := data.Index()
		if err != nil {
			h.messageSender.AnswerCallback(msg.CallbackID, "")
			return err
		}

		question, ok := h.keyboard.Example(idx)
		if !ok {
			h.messageSender.AnswerCallback(msg.CallbackID, "")
			return fmt.Errorf("unknown example question %d", idx)
		}

		h.messageSender.AnswerCallback(msg.CallbackID, "")
		h.sendMessage(msg.ChatID, "❓ "+question, nil)

		return h.questions.Handle(ctx, &Message{
			ChatID:    msg.ChatID,
			UserID:    msg.UserID,
			MessageID: msg.MessageID,
			Text:      question,
		})
	default:
		ctxzap.Warn(ctx, "unknown callback action", zap.String("action", data.Action))
		h.messageSender.AnswerCallback(msg.CallbackID, render.ErrUnknownCommand)
		return nil
	}
}
