package grader

import (
	"fmt"
	"strings"

	"pywhiz/internal/domain"
)

const codeReviewSystem = `You are a patient Python tutor reviewing a learner's program.
Respond with ONLY a JSON object, no prose before or after it:
{
    "output": "what the program printed, or what it should print",
    "hints": "short hints pointing at mistakes without giving away the solution",
    "suggestions": "concrete improvements to style or approach",
    "is_correct": true
}

Rules:
1. is_correct is true only if the program fully solves the task.
2. Base "output" on the sandbox stdout when it is provided.
3. Keep hints and suggestions under 80 words each.`

const exerciseReviewSystem = `You are a patient Python tutor reviewing a learner's solution to a practice exercise.
Respond with ONLY a JSON object, no prose before or after it:
{
    "output": "what the program printed, or what it should print",
    "hints": "short hints pointing at mistakes without giving away the solution",
    "suggestions": "concrete improvements to style or approach",
    "is_correct": true,
    "encouragement": "one or two motivating sentences tailored to this attempt",
    "focus_area": "the single Python concept the learner should practise next"
}

Rules:
1. is_correct is true only if the program fully solves the exercise.
2. Base "output" on the sandbox stdout when it is provided.
3. Adapt the tone to the attempt number and difficulty.`

// PromptBuilder renders grading prompts from a question and a sandbox run.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (b *PromptBuilder) CodeQuestion(q *domain.CodeQuestion, code string, run *domain.ExecutionResult) domain.GradingPrompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question:\n%s\n\n", q.Question)
	fmt.Fprintf(&sb, "Learner code:\n```python\n%s\n```\n\n", code)
	writeRun(&sb, run)
	return domain.GradingPrompt{System: codeReviewSystem, User: sb.String()}
}

// Exercise numbers the attempt from 1, counting the one being graded.
func (b *PromptBuilder) Exercise(ex *domain.PersonalizedExercise, code string, run *domain.ExecutionResult) domain.GradingPrompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Exercise (%s):\n%s\n\n", ex.Difficulty, ex.Question)
	fmt.Fprintf(&sb, "Attempt number: %d\n\n", ex.Attempts+1)
	fmt.Fprintf(&sb, "Learner code:\n```python\n%s\n```\n\n", code)
	writeRun(&sb, run)
	return domain.GradingPrompt{System: exerciseReviewSystem, User: sb.String()}
}

func writeRun(sb *strings.Builder, run *domain.ExecutionResult) {
	if run == nil {
		sb.WriteString("The program was not executed.\n")
		return
	}
	fmt.Fprintf(sb, "Sandbox stdout:\n%s\n\n", orNone(run.Stdout))
	fmt.Fprintf(sb, "Sandbox stderr:\n%s\n", orNone(run.Stderr))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
