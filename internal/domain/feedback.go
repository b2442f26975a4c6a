package domain

import "context"

// Feedback is the structured grading result extracted from a grader reply.
type Feedback struct {
	Output        string `json:"output"`
	Hints         string `json:"hints"`
	Suggestions   string `json:"suggestions"`
	IsCorrect     bool   `json:"is_correct"`
	Encouragement string `json:"encouragement,omitempty"`
	FocusArea     string `json:"focus_area,omitempty"`
}

// ExecutionRequest is the input to a sandbox run. StdinLines are fed in order.
type ExecutionRequest struct {
	SourceCode string
	StdinLines []string
}

type ExecutionResult struct {
	Stdout        string
	Stderr        string
	TimedOut      bool
	InputRequired bool
}

// CodeExecutor runs untrusted learner code in an external sandbox.
type CodeExecutor interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error)
}

type GradingPrompt struct {
	System string
	User   string
}

// Grader returns the raw, untrusted completion text for a prompt.
type Grader interface {
	Grade(ctx context.Context, prompt GradingPrompt) (string, error)
}

// FeedbackTranslator is an optional stage applied after parsing.
type FeedbackTranslator interface {
	Translate(ctx context.Context, fb *Feedback) (*Feedback, error)
}

type ExerciseGenerator interface {
	Generate(ctx context.Context, difficulty Difficulty) (string, error)
}
