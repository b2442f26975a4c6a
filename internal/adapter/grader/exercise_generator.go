package grader

import (
	"context"
	"fmt"
	"strings"

	"pywhiz/internal/domain"
)

const exerciseSystem = `You write short Python practice exercises for beginners.
Reply with the exercise statement only: no solution, no code, no headings.`

var difficultyGuides = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "Use variables, print, input and simple arithmetic or string operations.",
	domain.DifficultyMedium: "Use loops, conditionals and lists or dictionaries.",
	domain.DifficultyHard:   "Use functions, nested data structures and basic algorithms such as sorting or searching.",
}

// ExerciseGenerator implements domain.ExerciseGenerator over the circuit-broken LLMClient.
type ExerciseGenerator struct {
	client *LLMClient
}

func NewExerciseGenerator(client *LLMClient) *ExerciseGenerator {
	return &ExerciseGenerator{client: client}
}

func (g *ExerciseGenerator) Generate(ctx context.Context, difficulty domain.Difficulty) (string, error) {
	guide, ok := difficultyGuides[difficulty]
	if !ok {
		return "", domain.NewInvalidInputError(fmt.Sprintf("unknown difficulty %q", difficulty))
	}

	reply, err := g.client.complete(ctx, domain.GradingPrompt{
		System: exerciseSystem,
		User:   fmt.Sprintf("Write one %s exercise. %s It must be solvable in under 30 lines.", difficulty, guide),
	}, 0.9)
	if err != nil {
		return "", err
	}

	question := strings.TrimSpace(reply)
	if question == "" {
		return "", domain.NewGradingServiceError(errEmptyReply)
	}
	return question, nil
}
