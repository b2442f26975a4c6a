package service

import (
	"context"
	"testing"

	"pywhiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMCQFixture() (*MockContentRepository, *MockAnswerRepository, *MockProgressService, MCQService) {
	content := new(MockContentRepository)
	answers := new(MockAnswerRepository)
	progress := new(MockProgressService)
	return content, answers, progress, NewMCQService(content, answers, progress, testRewards)
}

func mcqQuestion() *domain.MCQQuestion {
	return &domain.MCQQuestion{
		ID:            "mcq1",
		MilestoneID:   "m1",
		QuestionText:  "Which keyword defines a function?",
		Options:       map[string]string{"A": "func", "B": "def", "C": "lambda"},
		CorrectAnswer: "B",
		Explanation:   "def starts a function definition.",
	}
}

func TestMCQService_SubmitAnswer_InvalidOption(t *testing.T) {
	content, answers, _, svc := newMCQFixture()

	for _, opt := range []string{"", "  ", "1", "AB", "?"} {
		_, err := svc.SubmitAnswer(context.Background(), "u1", "mcq1", opt)
		var verrs domain.ValidationErrors
		assert.ErrorAs(t, err, &verrs, "option %q", opt)
	}
	content.AssertNotCalled(t, "GetMCQQuestionByID", mock.Anything, mock.Anything)
	answers.AssertNotCalled(t, "UpsertMCQAnswer", mock.Anything, mock.Anything)
}

func TestMCQService_SubmitAnswer_UnknownQuestion(t *testing.T) {
	content, _, _, svc := newMCQFixture()
	content.On("GetMCQQuestionByID", mock.Anything, "nope").Return(nil, nil)

	_, err := svc.SubmitAnswer(context.Background(), "u1", "nope", "a")
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
}

func TestMCQService_SubmitAnswer_Incorrect(t *testing.T) {
	content, answers, progress, svc := newMCQFixture()
	content.On("GetMCQQuestionByID", mock.Anything, "mcq1").Return(mcqQuestion(), nil)
	answers.On("UpsertMCQAnswer", mock.Anything, mock.MatchedBy(func(a *domain.MCQAnswer) bool {
		return a.SelectedOption == "A" && !a.IsCorrect
	})).Return(nil)

	res, err := svc.SubmitAnswer(context.Background(), "u1", "mcq1", " a ")
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, "B", res.CorrectAnswer)
	assert.Equal(t, "def starts a function definition.", res.Explanation)
	content.AssertNotCalled(t, "CountMCQQuestions", mock.Anything, mock.Anything)
	progress.AssertNotCalled(t, "CompleteMilestoneSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMCQService_SubmitAnswer_PartialSetDoesNotAward(t *testing.T) {
	content, answers, progress, svc := newMCQFixture()
	content.On("GetMCQQuestionByID", mock.Anything, "mcq1").Return(mcqQuestion(), nil)
	answers.On("UpsertMCQAnswer", mock.Anything, mock.Anything).Return(nil)
	content.On("CountMCQQuestions", mock.Anything, "m1").Return(3, nil)
	answers.On("CountCorrectMCQAnswers", mock.Anything, "u1", "m1").Return(2, nil)

	res, err := svc.SubmitAnswer(context.Background(), "u1", "mcq1", "b")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Zero(t, res.PointsAwarded)
	progress.AssertNotCalled(t, "CompleteMilestoneSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMCQService_SubmitAnswer_FullSetAwardsOnce(t *testing.T) {
	unit := domain.ScoreUnit{Type: domain.UnitMCQSet, ID: "m1"}

	for _, first := range []bool{true, false} {
		content, answers, progress, svc := newMCQFixture()
		content.On("GetMCQQuestionByID", mock.Anything, "mcq1").Return(mcqQuestion(), nil)
		answers.On("UpsertMCQAnswer", mock.Anything, mock.Anything).Return(nil)
		content.On("CountMCQQuestions", mock.Anything, "m1").Return(3, nil)
		answers.On("CountCorrectMCQAnswers", mock.Anything, "u1", "m1").Return(3, nil)
		progress.On("CompleteMilestoneSet", mock.Anything, "u1", "m1", unit, 45).Return(first, nil)

		res, err := svc.SubmitAnswer(context.Background(), "u1", "mcq1", "B")
		require.NoError(t, err)
		if first {
			assert.Equal(t, 45, res.PointsAwarded)
		} else {
			assert.Zero(t, res.PointsAwarded)
		}
		progress.AssertExpectations(t)
	}
}
