package service

import (
	"context"
	"errors"

	"pywhiz/internal/domain"
	"pywhiz/internal/logger"
	"pywhiz/internal/util"

	"go.uber.org/zap"
)

// ExerciseService lists and generates personalized exercises. Grading goes through SubmissionService.
type ExerciseService interface {
	List(ctx context.Context, userID string) ([]*domain.PersonalizedExercise, error)
	Create(ctx context.Context, userID string) (*domain.PersonalizedExercise, error)
}

type exerciseService struct {
	exercises   domain.ExerciseRepository
	submissions domain.SubmissionRepository
	generator   domain.ExerciseGenerator
}

func NewExerciseService(exercises domain.ExerciseRepository, submissions domain.SubmissionRepository, generator domain.ExerciseGenerator) ExerciseService {
	return &exerciseService{exercises: exercises, submissions: submissions, generator: generator}
}

func (s *exerciseService) List(ctx context.Context, userID string) ([]*domain.PersonalizedExercise, error) {
	items, err := s.exercises.ListExercisesByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list exercises", err)
	}
	return items, nil
}

func (s *exerciseService) Create(ctx context.Context, userID string) (*domain.PersonalizedExercise, error) {
	count, err := s.submissions.CountByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count submissions", err)
	}
	difficulty := domain.DifficultyForSubmissionCount(count)

	question, err := s.generator.Generate(ctx, difficulty)
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, domain.NewGradingServiceError(err)
	}

	exercise := domain.NewPersonalizedExercise(util.NewULID(), userID, question, difficulty)
	if err := s.exercises.CreateExercise(ctx, exercise); err != nil {
		return nil, domain.NewInternalError("Failed to save exercise", err)
	}

	logger.Get().Info("Personalized exercise created",
		zap.String("userID", userID),
		zap.String("exerciseID", exercise.ID),
		zap.String("difficulty", string(difficulty)),
		zap.Int("submissionCount", count))
	return exercise, nil
}
