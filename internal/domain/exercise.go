package domain

import (
	"context"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyForSubmissionCount ramps difficulty with the learner's submission history.
func DifficultyForSubmissionCount(count int) Difficulty {
	switch {
	case count > 10:
		return DifficultyHard
	case count > 3:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// PersonalizedExercise is generated for one learner and graded like a code question.
// IsCompleted latches once the grader reports a correct solution.
type PersonalizedExercise struct {
	ID            string
	UserID        string
	Question      string
	GeneratedCode string
	Difficulty    Difficulty
	Output        string
	Hints         string
	Suggestions   string
	Encouragement string
	FocusArea     string
	IsCompleted   bool
	Attempts      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewPersonalizedExercise(id, userID, question string, difficulty Difficulty) *PersonalizedExercise {
	now := time.Now()
	return &PersonalizedExercise{
		ID:         id,
		UserID:     userID,
		Question:   question,
		Difficulty: difficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ApplyFeedback copies a grading result onto the exercise. Completion never reverts.
func (e *PersonalizedExercise) ApplyFeedback(code string, fb *Feedback) {
	e.GeneratedCode = code
	e.Output = fb.Output
	e.Hints = fb.Hints
	e.Suggestions = fb.Suggestions
	e.Encouragement = fb.Encouragement
	e.FocusArea = fb.FocusArea
	e.IsCompleted = e.IsCompleted || fb.IsCorrect
	e.UpdatedAt = time.Now()
}

type ExerciseRepository interface {
	CreateExercise(ctx context.Context, exercise *PersonalizedExercise) error
	GetExerciseForUser(ctx context.Context, id, userID string) (*PersonalizedExercise, error)
	ListExercisesByUser(ctx context.Context, userID string) ([]*PersonalizedExercise, error)
	// RecordExerciseAttempt stores the graded fields, increments attempts and returns the stored row.
	RecordExerciseAttempt(ctx context.Context, exercise *PersonalizedExercise) (*PersonalizedExercise, error)
}
