package grader

import (
	"context"
	"encoding/json"
	"fmt"

	"pywhiz/internal/domain"
	"pywhiz/internal/feedback"
	"pywhiz/internal/logger"

	"go.uber.org/zap"
)

// NoopTranslator returns feedback unchanged.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	return fb, nil
}

// LLMTranslator rewrites the learner-facing text of a feedback into another language.
// Translation never fails a submission: any error yields the original feedback.
type LLMTranslator struct {
	client *LLMClient
	target string
}

// NewTranslator returns a NoopTranslator when target is empty. Translation failures are counted
// apart from grading, so they never open the grader's breaker.
func NewTranslator(client *LLMClient, target string) domain.FeedbackTranslator {
	if target == "" || client == nil {
		return NoopTranslator{}
	}
	return &LLMTranslator{client: client.withOwnBreaker("translator"), target: target}
}

func (t *LLMTranslator) Translate(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	l := logger.Get()

	payload, err := json.Marshal(fb)
	if err != nil {
		l.Warn("Could not encode feedback for translation", zap.Error(err))
		return fb, nil
	}

	reply, err := t.client.complete(ctx, domain.GradingPrompt{
		System: fmt.Sprintf(`Translate the string values of the JSON object into %s.
Keep every key and the is_correct value unchanged. Do not translate Python code or identifiers.
Respond with ONLY the translated JSON object.`, t.target),
		User: string(payload),
	}, 0)
	if err != nil {
		l.Warn("Feedback translation failed, keeping original", zap.String("target", t.target), zap.Error(err))
		return fb, nil
	}

	var opts []feedback.Option
	if fb.Encouragement != "" {
		opts = append(opts, feedback.WithRequired(feedback.KeyEncouragement))
	}
	if fb.FocusArea != "" {
		opts = append(opts, feedback.WithRequired(feedback.KeyFocusArea))
	}
	translated, err := feedback.Parse(reply, opts...)
	if err != nil {
		l.Warn("Translated feedback was unreadable, keeping original", zap.String("target", t.target), zap.Error(err))
		return fb, nil
	}

	translated.IsCorrect = fb.IsCorrect
	return translated, nil
}
