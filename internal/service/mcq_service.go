package service

import (
	"context"
	"fmt"
	"unicode"

	"pywhiz/internal/config"
	"pywhiz/internal/domain"
	"pywhiz/internal/logger"

	"go.uber.org/zap"
)

// MCQResult is the graded view of one multiple-choice answer.
type MCQResult struct {
	IsCorrect     bool
	CorrectAnswer string
	Explanation   string
	PointsAwarded int
}

type MCQService interface {
	SubmitAnswer(ctx context.Context, userID, questionID, selectedOption string) (*MCQResult, error)
}

type mcqService struct {
	content  domain.ContentRepository
	answers  domain.AnswerRepository
	progress ProgressService
	rewards  config.RewardsConfig
}

func NewMCQService(content domain.ContentRepository, answers domain.AnswerRepository, progress ProgressService, rewards config.RewardsConfig) MCQService {
	return &mcqService{content: content, answers: answers, progress: progress, rewards: rewards}
}

func (s *mcqService) SubmitAnswer(ctx context.Context, userID, questionID, selectedOption string) (*MCQResult, error) {
	option := domain.NormalizeOption(selectedOption)
	if !isOptionLetter(option) {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("selected_option", selectedOption)}
	}

	q, err := s.content.GetMCQQuestionByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load MCQ question", err)
	}
	if q == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("mcq question %s not found", questionID))
	}

	correct := q.Check(option)
	if err := s.answers.UpsertMCQAnswer(ctx, &domain.MCQAnswer{
		UserID:         userID,
		QuestionID:     questionID,
		SelectedOption: option,
		IsCorrect:      correct,
	}); err != nil {
		return nil, domain.NewInternalError("Failed to save MCQ answer", err)
	}

	result := &MCQResult{IsCorrect: correct, CorrectAnswer: q.CorrectAnswer, Explanation: q.Explanation}
	if correct {
		result.PointsAwarded = s.checkSetCompleted(ctx, userID, q.MilestoneID)
	}
	return result, nil
}

// checkSetCompleted re-evaluates the milestone's question set from the stored answers
// and pays the set reward the first time every question is answered correctly.
func (s *mcqService) checkSetCompleted(ctx context.Context, userID, milestoneID string) int {
	total, err := s.content.CountMCQQuestions(ctx, milestoneID)
	if err != nil {
		logger.Get().Error("Failed to count MCQ questions", zap.Error(err), zap.String("milestoneID", milestoneID))
		return 0
	}
	correct, err := s.answers.CountCorrectMCQAnswers(ctx, userID, milestoneID)
	if err != nil {
		logger.Get().Error("Failed to count correct MCQ answers", zap.Error(err), zap.String("userID", userID))
		return 0
	}
	if total == 0 || correct < total {
		return 0
	}

	points := s.rewards.MCQPerQuestion * total
	unit := domain.ScoreUnit{Type: domain.UnitMCQSet, ID: milestoneID}
	awarded, err := s.progress.CompleteMilestoneSet(ctx, userID, milestoneID, unit, points)
	if err != nil {
		logger.Get().Error("Failed to award MCQ set",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("milestoneID", milestoneID))
		return 0
	}
	if !awarded {
		return 0
	}
	return points
}

func isOptionLetter(option string) bool {
	r := []rune(option)
	return len(r) == 1 && unicode.IsLetter(r[0])
}
