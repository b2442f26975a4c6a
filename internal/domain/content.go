package domain

import (
	"context"
	"strings"
	"time"
)

// Milestone is an ordered unit of curriculum.
type Milestone struct {
	ID          string
	Title       string
	Description string
	Order       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LearnContent struct {
	ID                  string
	MilestoneID         string
	Title               string
	VideoURL            string
	AudioURL            string
	Transcript          string
	AdditionalResources map[string]interface{}
	Order               int
	IsAdditional        bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CodeQuestion is graded by the external grader.
type CodeQuestion struct {
	ID          string
	MilestoneID string
	Question    string
	ExampleCode string
	Hint        string
	VideoURL    string
	AudioURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MCQQuestion is graded locally against CorrectAnswer.
type MCQQuestion struct {
	ID            string
	MilestoneID   string
	QuestionText  string
	Options       map[string]string
	CorrectAnswer string
	Explanation   string
	Order         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeOption trims and uppercases a selected option key.
func NormalizeOption(selected string) string {
	return strings.ToUpper(strings.TrimSpace(selected))
}

// Check grades a selection by exact match on the normalized option key.
func (q *MCQQuestion) Check(selected string) bool {
	return NormalizeOption(selected) == q.CorrectAnswer
}

// ContentRepository reads published curriculum. Single-item getters return (nil, nil) when nothing matches.
type ContentRepository interface {
	ListActiveMilestones(ctx context.Context) ([]*Milestone, error)
	GetMilestoneByID(ctx context.Context, id string) (*Milestone, error)
	GetFirstActiveMilestone(ctx context.Context) (*Milestone, error)
	ListLearnContents(ctx context.Context, milestoneID string) ([]*LearnContent, error)
	ListCodeQuestions(ctx context.Context, milestoneID string) ([]*CodeQuestion, error)
	GetCodeQuestionByID(ctx context.Context, id string) (*CodeQuestion, error)
	ListMCQQuestions(ctx context.Context, milestoneID string) ([]*MCQQuestion, error)
	GetMCQQuestionByID(ctx context.Context, id string) (*MCQQuestion, error)
	CountMCQQuestions(ctx context.Context, milestoneID string) (int, error)
}
