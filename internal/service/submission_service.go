package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pywhiz/internal/config"
	"pywhiz/internal/domain"
	"pywhiz/internal/feedback"
	"pywhiz/internal/logger"
	"pywhiz/internal/util"

	"github.com/felixgeelhaar/fortify/retry"
	"go.uber.org/zap"
)

// MaxStdinLines bounds the number of stdin lines fed to one run.
const MaxStdinLines = 50

// GradingPrompts builds grader prompts for the two submission targets.
type GradingPrompts interface {
	CodeQuestion(q *domain.CodeQuestion, code string, run *domain.ExecutionResult) domain.GradingPrompt
	Exercise(ex *domain.PersonalizedExercise, code string, run *domain.ExecutionResult) domain.GradingPrompt
}

// SubmissionService runs the execute, grade, parse, persist and score pipeline for code submissions.
//
// The returned outcome describes how the workflow ended. The error is reserved for requests that
// could not enter the workflow (unknown target) or whose result could not be stored.
type SubmissionService interface {
	SubmitCodeAnswer(ctx context.Context, userID, questionID, code string, inputs []string) (domain.SubmissionOutcome, error)
	SubmitExercise(ctx context.Context, userID, exerciseID, code string, inputs []string) (domain.SubmissionOutcome, error)
}

type submissionService struct {
	content     domain.ContentRepository
	answers     domain.AnswerRepository
	exercises   domain.ExerciseRepository
	submissions domain.SubmissionRepository
	progress    ProgressService
	executor    domain.CodeExecutor
	grader      domain.Grader
	prompts     GradingPrompts
	translator  domain.FeedbackTranslator
	rewards     config.RewardsConfig
	scoring     retry.Retry[int]
}

func NewSubmissionService(
	content domain.ContentRepository,
	answers domain.AnswerRepository,
	exercises domain.ExerciseRepository,
	submissions domain.SubmissionRepository,
	progress ProgressService,
	executor domain.CodeExecutor,
	grader domain.Grader,
	prompts GradingPrompts,
	translator domain.FeedbackTranslator,
	rewards config.RewardsConfig,
) SubmissionService {
	return &submissionService{
		content:     content,
		answers:     answers,
		exercises:   exercises,
		submissions: submissions,
		progress:    progress,
		executor:    executor,
		grader:      grader,
		prompts:     prompts,
		translator:  translator,
		rewards:     rewards,
		scoring:     newScoringRetry(3, 100*time.Millisecond),
	}
}

func newScoringRetry(attempts int, initialDelay time.Duration) retry.Retry[int] {
	return retry.New[int](retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  initialDelay,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable: func(err error) bool {
			if domain.HasCode(err, domain.CodeNotFound) {
				return false
			}
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
	})
}

func (s *submissionService) SubmitCodeAnswer(ctx context.Context, userID, questionID, code string, inputs []string) (domain.SubmissionOutcome, error) {
	if out := validateSubmission(code, inputs); out != nil {
		return out, nil
	}

	question, err := s.content.GetCodeQuestionByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load question", err)
	}
	if question == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("question %s not found", questionID))
	}

	run, out := s.execute(ctx, code, inputs)
	if out != nil {
		return out, nil
	}

	fb, out := s.grade(ctx, s.prompts.CodeQuestion(question, code, run))
	if out != nil {
		return out, nil
	}

	answer, err := s.answers.UpsertCodeAnswer(ctx, &domain.CodeAnswer{
		UserID:      userID,
		QuestionID:  questionID,
		UserCode:    code,
		Output:      fb.Output,
		Hints:       fb.Hints,
		Suggestions: fb.Suggestions,
		IsCorrect:   fb.IsCorrect,
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to save answer", err)
	}
	s.recordSubmission(ctx, userID, domain.SourceCodeQuestion, questionID, code, fb.IsCorrect)

	graded := &domain.GradedOutcome{Feedback: fb, Answer: answer}
	if fb.IsCorrect {
		unit := domain.ScoreUnit{Type: domain.UnitCodeQuestion, ID: questionID}
		graded.PointsAwarded = s.score(ctx, userID, unit, s.rewards.CodeQuestion,
			trackMark{milestoneID: question.MilestoneID, kind: domain.MarkCompletedCode})
	}
	return graded, nil
}

func (s *submissionService) SubmitExercise(ctx context.Context, userID, exerciseID, code string, inputs []string) (domain.SubmissionOutcome, error) {
	if out := validateSubmission(code, inputs); out != nil {
		return out, nil
	}

	exercise, err := s.exercises.GetExerciseForUser(ctx, exerciseID, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load exercise", err)
	}
	if exercise == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("exercise %s not found", exerciseID))
	}

	run, out := s.execute(ctx, code, inputs)
	if out != nil {
		return out, nil
	}

	fb, out := s.grade(ctx, s.prompts.Exercise(exercise, code, run),
		feedback.WithRequired(feedback.KeyEncouragement, feedback.KeyFocusArea))
	if out != nil {
		return out, nil
	}

	exercise.ApplyFeedback(code, fb)
	stored, err := s.exercises.RecordExerciseAttempt(ctx, exercise)
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, domain.NewInternalError("Failed to save exercise attempt", err)
	}
	s.recordSubmission(ctx, userID, domain.SourceExercise, exerciseID, code, fb.IsCorrect)

	graded := &domain.GradedOutcome{Feedback: fb, Exercise: stored}
	if fb.IsCorrect {
		unit := domain.ScoreUnit{Type: domain.UnitExercise, ID: exerciseID}
		graded.PointsAwarded = s.score(ctx, userID, unit, s.rewards.Exercise, trackMark{
			milestoneID:    s.currentMilestone(ctx, userID),
			kind:           domain.MarkCompletedExercise,
			firstClaimOnly: true,
		})
	}
	return graded, nil
}

func validateSubmission(code string, inputs []string) domain.SubmissionOutcome {
	var errs domain.ValidationErrors
	if strings.TrimSpace(code) == "" {
		errs = append(errs, domain.NewMissingFieldError("code"))
	}
	if len(inputs) > MaxStdinLines {
		errs = append(errs, domain.NewOutOfRangeError("inputs", len(inputs), 0, MaxStdinLines))
	}
	if len(errs) > 0 {
		return &domain.ValidationFailedOutcome{Err: errs}
	}
	return nil
}

func (s *submissionService) execute(ctx context.Context, code string, inputs []string) (*domain.ExecutionResult, domain.SubmissionOutcome) {
	run, err := s.executor.Execute(ctx, domain.ExecutionRequest{SourceCode: code, StdinLines: inputs})
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, &domain.ValidationFailedOutcome{Err: verrs}
		}
		var de *domain.DomainError
		if !errors.As(err, &de) {
			err = domain.NewExecutionServiceError(err)
		}
		logger.Get().Warn("Code execution failed", zap.Error(err))
		return nil, &domain.ServiceErrorOutcome{Err: err}
	}
	if run.InputRequired {
		return nil, &domain.InputRequiredOutcome{Message: domain.InputRequiredMessage, StdoutSoFar: run.Stdout}
	}
	return run, nil
}

func (s *submissionService) grade(ctx context.Context, prompt domain.GradingPrompt, opts ...feedback.Option) (*domain.Feedback, domain.SubmissionOutcome) {
	raw, err := s.grader.Grade(ctx, prompt)
	if err != nil {
		var de *domain.DomainError
		if !errors.As(err, &de) {
			err = domain.NewGradingServiceError(err)
		}
		logger.Get().Warn("Grading failed", zap.Error(err))
		return nil, &domain.ServiceErrorOutcome{Err: err}
	}

	fb, err := feedback.Parse(raw, opts...)
	if err != nil {
		logger.Get().Error("Grader reply could not be parsed", zap.Error(err), zap.String("rawReply", raw))
		return nil, &domain.ServiceErrorOutcome{Err: err}
	}

	if s.translator != nil {
		translated, err := s.translator.Translate(ctx, fb)
		if err != nil {
			logger.Get().Warn("Feedback translation failed, keeping original", zap.Error(err))
		} else if translated != nil {
			fb = translated
		}
	}
	return fb, nil
}

// recordSubmission appends to the history. A failure is logged; the graded answer is already stored.
func (s *submissionService) recordSubmission(ctx context.Context, userID string, source domain.SubmissionSource, targetID, code string, correct bool) {
	err := s.submissions.CreateSubmission(ctx, &domain.CodeSubmission{
		ID:        util.NewULID(),
		UserID:    userID,
		Source:    source,
		TargetID:  targetID,
		Code:      code,
		IsCorrect: correct,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.Get().Error("Failed to record code submission",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("source", string(source)),
			zap.String("targetID", targetID))
	}
}

func (s *submissionService) currentMilestone(ctx context.Context, userID string) string {
	p, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Get().Warn("Could not resolve current milestone", zap.Error(err), zap.String("userID", userID))
		return ""
	}
	return p.CurrentMilestoneID
}

// trackMark is the milestone track a correct submission counts towards.
type trackMark struct {
	milestoneID string
	kind        domain.MarkKind
	// firstClaimOnly marks the track only from the submission whose claim paid out.
	firstClaimOnly bool
}

// score awards points for unit and marks the track. Both steps are idempotent, so the
// whole step is retried as a unit. A final failure is logged and reported as zero points.
func (s *submissionService) score(ctx context.Context, userID string, unit domain.ScoreUnit, points int, track trackMark) int {
	awarded := 0
	claimed := false
	_, err := s.scoring.Do(ctx, func(ctx context.Context) (int, error) {
		ok, err := s.progress.RecordCorrect(ctx, userID, unit, points)
		if err != nil {
			return 0, err
		}
		if ok {
			claimed = true
			awarded = points
		}
		if track.milestoneID == "" || (track.firstClaimOnly && !claimed) {
			return awarded, nil
		}
		res, err := s.progress.MarkMilestone(ctx, userID, track.milestoneID, track.kind)
		if err != nil {
			return 0, err
		}
		if res.BonusAwarded {
			awarded += s.rewards.MilestoneCompleted
		}
		return awarded, nil
	})
	if err != nil {
		logger.Get().Error("Scoring failed after retries; answer kept",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("unit", unit.String()))
	}
	return awarded
}
