// Package grader talks to the chat-completion model that grades code and writes exercises.
package grader

import (
	"context"
	"errors"
	"strings"
	"time"

	"pywhiz/internal/config"
	"pywhiz/internal/domain"
	"pywhiz/internal/logger"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

var errEmptyReply = errors.New("model returned an empty reply")

// LLMClient implements domain.Grader. Every call makes exactly one completion request; failures
// are counted by a circuit breaker that fails fast while open.
type LLMClient struct {
	model       llms.Model
	breaker     circuitbreaker.CircuitBreaker[string]
	timeout     time.Duration
	temperature float64
	threshold   int
	openFor     time.Duration
}

func NewLLMClient(model llms.Model, cfg config.GraderConfig) *LLMClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = 5
	}
	openFor := cfg.BreakerOpenDuration
	if openFor <= 0 {
		openFor = 30 * time.Second
	}

	return &LLMClient{
		model:       model,
		timeout:     timeout,
		temperature: cfg.Temperature,
		threshold:   threshold,
		openFor:     openFor,
		breaker:     newBreaker("grader", threshold, openFor),
	}
}

// withOwnBreaker returns a client on the same model whose failures trip a separate breaker.
func (c *LLMClient) withOwnBreaker(name string) *LLMClient {
	cp := *c
	cp.breaker = newBreaker(name, c.threshold, c.openFor)
	return &cp
}

func newBreaker(name string, threshold int, openFor time.Duration) circuitbreaker.CircuitBreaker[string] {
	return circuitbreaker.New[string](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openFor,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Get().Warn("LLM circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Grade returns the raw completion text for prompt. The text is untrusted.
func (c *LLMClient) Grade(ctx context.Context, prompt domain.GradingPrompt) (string, error) {
	return c.complete(ctx, prompt, c.temperature)
}

func (c *LLMClient) complete(ctx context.Context, prompt domain.GradingPrompt, temperature float64) (string, error) {
	l := logger.Get()
	start := time.Now()

	reply, err := c.breaker.Execute(ctx, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.model.GenerateContent(callCtx, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, prompt.System),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt.User),
		}, llms.WithTemperature(temperature))
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
			return "", errEmptyReply
		}
		return resp.Choices[0].Content, nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("Grader request timed out", zap.Duration("timeout", c.timeout), zap.Error(err))
		} else {
			l.Error("Grader request failed", zap.Error(err))
		}
		return "", domain.NewGradingServiceError(err)
	}

	l.Debug("Grader replied", zap.Duration("elapsed", time.Since(start)), zap.Int("reply_len", len(reply)))
	return reply, nil
}
