// Package executor runs learner programs in a remote Piston-compatible sandbox.
package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"pywhiz/internal/config"
	"pywhiz/internal/domain"
	"pywhiz/internal/logger"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// inputSignatures mark a program that blocked on stdin. Matched case-insensitively against stderr.
var inputSignatures = []string{
	"waiting for input",
	"eoferror: eof when reading a line",
}

type pistonFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin"`
}

type pistonStage struct {
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Code   *int    `json:"code"`
	Signal *string `json:"signal"`
}

type pistonResponse struct {
	Run     pistonStage `json:"run"`
	Message string      `json:"message"`
}

// PistonClient implements domain.CodeExecutor.
type PistonClient struct {
	http     *resty.Client
	cfg      config.ExecutorConfig
	bulkhead bulkhead.Bulkhead[*domain.ExecutionResult]
}

func NewPistonClient(cfg config.ExecutorConfig) *PistonClient {
	if cfg.Timeout <= 0 || cfg.Timeout > config.MaxExecutionTimeout {
		cfg.Timeout = config.MaxExecutionTimeout
	}
	if cfg.FileName == "" {
		cfg.FileName = "main.py"
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	return &PistonClient{
		http: resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		cfg: cfg,
		bulkhead: bulkhead.New[*domain.ExecutionResult](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
			MaxQueue:      maxConcurrent * 4,
			QueueTimeout:  cfg.Timeout,
		}),
	}
}

// Execute runs req.SourceCode once. A timeout is reported as EXECUTION_TIMEOUT together with a
// result whose TimedOut flag is set; it is never reported as empty output.
func (c *PistonClient) Execute(ctx context.Context, req domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	if strings.TrimSpace(req.SourceCode) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("code")}
	}

	result, err := c.bulkhead.Execute(ctx, func(ctx context.Context) (*domain.ExecutionResult, error) {
		return c.run(ctx, req)
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return result, err
		}
		logger.Get().Warn("Sandbox bulkhead rejected execution", zap.Error(err))
		return nil, domain.NewExecutionServiceError(fmt.Errorf("sandbox is saturated: %w", err))
	}
	return result, nil
}

func (c *PistonClient) run(ctx context.Context, req domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := pistonRequest{
		Language: c.cfg.Language,
		Version:  c.cfg.Version,
		Files:    []pistonFile{{Name: c.cfg.FileName, Content: req.SourceCode}},
		Stdin:    strings.Join(req.StdinLines, "\n"),
	}

	var out pistonResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post(c.cfg.URL)
	if err != nil {
		if isTimeout(err) {
			l.Warn("Sandbox execution timed out", zap.Duration("timeout", c.cfg.Timeout), zap.Error(err))
			return &domain.ExecutionResult{TimedOut: true}, domain.NewExecutionTimeoutError(err)
		}
		l.Error("Sandbox request failed", zap.String("url", c.cfg.URL), zap.Error(err))
		return nil, domain.NewExecutionServiceError(err)
	}
	if resp.IsError() {
		l.Error("Sandbox returned an error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", out.Message))
		return nil, domain.NewExecutionServiceError(fmt.Errorf("sandbox status %d: %s", resp.StatusCode(), out.Message))
	}

	result := &domain.ExecutionResult{
		Stdout: out.Run.Stdout,
		Stderr: out.Run.Stderr,
	}
	if out.Run.Signal != nil && *out.Run.Signal == "SIGKILL" {
		result.TimedOut = true
		l.Warn("Sandbox killed the program", zap.Duration("elapsed", time.Since(start)))
		return result, domain.NewExecutionTimeoutError(errors.New("program was killed by the sandbox"))
	}
	result.InputRequired = requiresInput(result.Stderr)

	l.Debug("Sandbox execution finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("input_required", result.InputRequired))
	return result, nil
}

func requiresInput(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, sig := range inputSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
