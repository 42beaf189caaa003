package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/realty-advisor/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	warningInterval   = 30 * time.Second
	inactiveThreshold = time.Hour
	cleanupInterval   = 10 * time.Minute
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	limiter *rate.Limiter

	mu            sync.Mutex
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Users idle for an hour are evicted from the cache.
type RateLimiterMiddleware struct {
	limits *cache.Cache
	mu     sync.Mutex
	every  rate.Limit
	burst  int
	logger *zap.Logger
	api    Sender
	now    func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api Sender,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limits: cache.New(inactiveThreshold, cleanupInterval),
		every:  rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:  burstSize,
		logger: logger,
		api:    api,
		now:    time.Now,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := origin(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

// allowRequest takes a token from the user's bucket, warning the user at
// most once per warningInterval when the bucket is empty.
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.userLimit(userID)
	now := rl.now()

	if limit.limiter.AllowN(now, 1) {
		limit.mu.Lock()
		limit.warningsSent = 0
		limit.mu.Unlock()
		return true
	}

	limit.mu.Lock()
	send := now.Sub(limit.lastWarningAt) > warningInterval
	if send {
		limit.warningsSent++
		limit.lastWarningAt = now
	}
	count := limit.warningsSent
	limit.mu.Unlock()

	if send {
		rl.sendRateLimitWarning(chatID, count)
	}

	return false
}

func (rl *RateLimiterMiddleware) userLimit(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, found := rl.limits.Get(key); found {
		limit := v.(*userLimit)
		// refresh the expiration on every request
		rl.limits.SetDefault(key, limit)
		return limit
	}

	limit := &userLimit{limiter: rate.NewLimiter(rl.every, rl.burst)}
	rl.limits.SetDefault(key, limit)
	return limit
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	msg := tgbotapi.NewMessage(chatID, render.RenderRateLimitWarning(warningCount))
	if _, err := rl.api.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// TrackedUsers returns how many users currently have a bucket
func (rl *RateLimiterMiddleware) TrackedUsers() int {
	return rl.limits.ItemCount()
}
