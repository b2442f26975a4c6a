package domain

import (
	"context"
	"time"
)

// CodeAnswer is the single live answer row for a (user, question) pair.
type CodeAnswer struct {
	UserID      string
	QuestionID  string
	UserCode    string
	Output      string
	Hints       string
	Suggestions string
	IsCorrect   bool
	Attempts    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MCQAnswer struct {
	UserID         string
	QuestionID     string
	SelectedOption string
	IsCorrect      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SubmissionSource string

const (
	SourceCodeQuestion SubmissionSource = "question"
	SourceExercise     SubmissionSource = "exercise"
)

// CodeSubmission is an append-only history entry, one per graded submission.
type CodeSubmission struct {
	ID        string
	UserID    string
	Source    SubmissionSource
	TargetID  string
	Code      string
	IsCorrect bool
	CreatedAt time.Time
}

type AnswerRepository interface {
	// UpsertCodeAnswer replaces the row for (user, question) and increments attempts atomically.
	// The stored row is returned.
	UpsertCodeAnswer(ctx context.Context, answer *CodeAnswer) (*CodeAnswer, error)
	GetCodeAnswer(ctx context.Context, userID, questionID string) (*CodeAnswer, error)
	UpsertMCQAnswer(ctx context.Context, answer *MCQAnswer) error
	CountCorrectMCQAnswers(ctx context.Context, userID, milestoneID string) (int, error)
}

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, submission *CodeSubmission) error
	CountByUser(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*CodeSubmission, int, error)
}
