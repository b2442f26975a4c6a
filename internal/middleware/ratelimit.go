package middleware

import (
	"time"

	"pywhiz/internal/domain"
	"pywhiz/internal/logger"

	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SubmissionLimiter throttles submit endpoints per authenticated user.
type SubmissionLimiter struct {
	limiter ratelimit.RateLimiter
}

// NewSubmissionLimiter allows perMinute submissions per user with a burst of the same size.
// A non-positive perMinute disables limiting.
func NewSubmissionLimiter(perMinute int) *SubmissionLimiter {
	if perMinute <= 0 {
		return &SubmissionLimiter{}
	}
	return &SubmissionLimiter{
		limiter: ratelimit.New(&ratelimit.Config{
			Rate:     perMinute,
			Burst:    perMinute,
			Interval: time.Minute,
		}),
	}
}

// Handler must run after Protected; requests without a user id are keyed by client IP.
func (l *SubmissionLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.limiter == nil {
			return c.Next()
		}
		key := UserID(c)
		if key == "" {
			key = "ip:" + c.IP()
		}
		if !l.limiter.Allow(c.UserContext(), key) {
			logger.Get().Info("Submission rate limited", zap.String("key", key), zap.String("path", c.Path()))
			return domain.NewRateLimitedError("Too many submissions, slow down and try again shortly")
		}
		return c.Next()
	}
}

func (l *SubmissionLimiter) Close() error {
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Close()
}
