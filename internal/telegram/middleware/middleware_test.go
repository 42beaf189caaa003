package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/futig/realty-advisor/internal/telegram/render"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

func textUpdate(userID, chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func TestRateLimiter_BlocksAfterBurstAndWarnsOnce(t *testing.T) {
	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(1, 2, zap.NewNop(), sender)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	var passed int
	next := func(tgbotapi.Update) { passed++ }

	for i := 0; i < 4; i++ {
		rl.Handle(textUpdate(1, 10, "q"), next)
	}
	assert.Equal(t, 2, passed)
	assert.Equal(t, []string{render.ErrRateLimited}, sender.texts())

	// Half a token later: still blocked, the warning escalates
	now = now.Add(31 * time.Second)
	rl.Handle(textUpdate(1, 10, "q"), next)
	assert.Equal(t, 2, passed)
	assert.Equal(t, []string{render.ErrRateLimited, render.ErrRateLimitedAgain}, sender.texts())

	// A full token has been refilled
	now = now.Add(time.Minute)
	rl.Handle(textUpdate(1, 10, "q"), next)
	assert.Equal(t, 3, passed)
}

func TestRateLimiter_UsersAreIndependent(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, 1, zap.NewNop(), &fakeSender{})

	var passed []int64
	next := func(u tgbotapi.Update) { passed = append(passed, u.Message.From.ID) }

	rl.Handle(textUpdate(1, 10, "q"), next)
	rl.Handle(textUpdate(1, 10, "q"), next)
	rl.Handle(textUpdate(2, 20, "q"), next)

	assert.Equal(t, []int64{1, 2}, passed)
	assert.Equal(t, 2, rl.TrackedUsers())
}

func TestRateLimiter_PassesUnknownUpdates(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, 1, zap.NewNop(), &fakeSender{})

	var passed int
	for i := 0; i < 3; i++ {
		rl.Handle(tgbotapi.Update{UpdateID: i}, func(tgbotapi.Update) { passed++ })
	}
	assert.Equal(t, 3, passed)
	assert.Zero(t, rl.TrackedUsers())
}

func TestRecovery_ReportsPanicToChat(t *testing.T) {
	sender := &fakeSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	require.NotPanics(t, func() {
		m.Handle(textUpdate(1, 10, "q"), func(tgbotapi.Update) { panic("boom") })
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(10), sender.sent[0].ChatID)
	assert.Equal(t, render.ErrGeneric, sender.sent[0].Text)
}

func TestLogging_LogsReceivedAndProcessed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewLoggingMiddleware(zap.New(core))

	called := false
	m.Handle(textUpdate(1, 10, "hello"), func(tgbotapi.Update) { called = true })

	assert.True(t, called)
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "telegram update received", entries[0].Message)
	assert.Equal(t, "text", entries[0].ContextMap()["type"])
	assert.Equal(t, "telegram update processed", entries[1].Message)
}

type recordingMiddleware struct {
	name  string
	trace *[]string
}

func (r recordingMiddleware) Handle(u tgbotapi.Update, next func(tgbotapi.Update)) {
	*r.trace = append(*r.trace, r.name)
	next(u)
}

func TestChain_RunsInOrder(t *testing.T) {
	var trace []string
	h := Chain(
		func(tgbotapi.Update) { trace = append(trace, "handler") },
		recordingMiddleware{name: "first", trace: &trace},
		recordingMiddleware{name: "second", trace: &trace},
	)

	h(tgbotapi.Update{})
	assert.Equal(t, []string{"first", "second", "handler"}, trace)
}
