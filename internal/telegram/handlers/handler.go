package handlers

import (
	"context"

	"github.com/futig/realty-advisor/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Update kinds a handler can be registered for
const (
	KindText     = "TEXT"
	KindCallback = "CALLBACK"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Answerer answers a question from the indexed corpus
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// QueryValidator checks a question before it reaches the pipeline
type QueryValidator interface {
	ValidateQuery(req *entity.QueryRequest) error
}

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	CallbackData string
	CallbackID   string
}

// Handler processes one kind of update
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
	Kind() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	kind          string
	messageSender *MessageSender
}

// Kind implements Handler
func (h *BaseHandler) Kind() string {
	return h.kind
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(chatID int64, text string, markup interface{}) {
	if h.messageSender != nil {
		_ = h.messageSender.Send(chatID, text, markup)
	}
}

// IsValidKind checks if a kind is valid for handler registration
func IsValidKind(kind string) bool {
	return kind == KindText || kind == KindCallback
}
