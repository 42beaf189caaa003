package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/futig/realty-advisor/internal/entity"
)

// MaxMessageLength is the Telegram limit for one text message, in runes.
const MaxMessageLength = 4096

const (
	// Welcome messages
	MsgWelcome = `👋 Hi! I am an independent real-estate investment assistant.

Ask me anything about the property market: prices, rental yields, new projects or regulation. I answer from recent property news.

Tap one of the examples below or just type your question.`

	MsgHelp = `🤖 Bot commands:

/start - Show the welcome message and example questions
/help - Show this help

How it works:
1. Send a question as a text message
2. I look up the most relevant news fragments
3. I write an answer based on them

If the news do not cover your question, I will say that I don't know.`

	// Processing
	MsgThinking = `🔍 Looking through the latest property news...`

	// Errors
	ErrGeneric            = `❌ Something went wrong. Please try again or press /start`
	ErrUnknownCommand     = `❌ Unknown command. Use /help`
	ErrEmptyQuestion      = `❌ Please send your question as a text message.`
	ErrQuestionTooLong    = `❌ The question is too long. Please shorten it and try again.`
	ErrPromptTooLarge     = `❌ The question together with the found documents is too large for the model. Try a shorter question.`
	ErrNotReady           = `⏳ The news corpus is still being indexed. Please try again in a minute.`
	ErrNetworkIssue       = `❌ Connection problem. Please try again later.`
	ErrServiceUnavailable = `❌ The language model is temporarily unavailable. Please try again in a few minutes.`
	ErrTimeout            = `❌ The answer took too long. Please try again.`
	ErrRateLimited        = `⚠️ Too many requests. Please wait a little.`
	ErrRateLimitedAgain   = `⚠️ Request limit exceeded. Wait about 30 seconds before the next question.`
	ErrRateLimitedBlocked = `🛑 You are sending questions too often. Please wait a minute.`
)

// RenderRateLimitWarning escalates the warning with each repeated hit.
func RenderRateLimitWarning(warningCount int) string {
	switch {
	case warningCount <= 1:
		return ErrRateLimited
	case warningCount == 2:
		return ErrRateLimitedAgain
	default:
		return ErrRateLimitedBlocked
	}
}

// SplitMessage cuts text into parts of at most limit runes, preferring to
// break after a newline, then after a space.
func SplitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 {
		limit = MaxMessageLength
	}

	var parts []string
	for utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		window := string(runes[:limit])

		cut := strings.LastIndex(window, "\n")
		if cut <= 0 {
			cut = strings.LastIndex(window, " ")
		}
		if cut <= 0 {
			cut = len(window)
		}

		parts = append(parts, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		parts = append(parts, text)
	}

	return parts
}

// ClassifyError maps a pipeline error to a user-facing message
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return ErrGeneric
	case errors.Is(err, entity.ErrMissingField):
		return ErrEmptyQuestion
	case errors.Is(err, entity.ErrInvalidParameter):
		return ErrQuestionTooLong
	case errors.Is(err, entity.ErrPromptTooLarge):
		return ErrPromptTooLarge
	case errors.Is(err, entity.ErrNotInitialized):
		return ErrNotReady
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	if errors.Is(err, entity.ErrEmbedding) || errors.Is(err, entity.ErrGeneration) {
		return ErrServiceUnavailable
	}

	return ErrGeneric
}

// RenderExampleButton shortens a question to fit on an inline button.
func RenderExampleButton(question string, maxRunes int) string {
	runes := []rune(question)
	if len(runes) <= maxRunes {
		return question
	}
	return fmt.Sprintf("%s…", strings.TrimSpace(string(runes[:maxRunes-1])))
}
