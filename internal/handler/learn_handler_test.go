package handler_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"pywhiz/internal/domain"
	"pywhiz/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLearnHandler_ListMilestones(t *testing.T) {
	app, s := newRoutedApp()
	s.content.On("ListMilestones", mock.Anything).Return([]*domain.Milestone{
		{ID: "m1", Title: "Variables", Order: 1, IsActive: true},
		{ID: "m2", Title: "Loops", Order: 2, IsActive: true},
	}, nil)

	resp := doJSON(t, app, http.MethodGet, "/api/learn/milestones", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]interface{}
	decodeBody(t, resp, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "m1", body[0]["id"])
}

func TestLearnHandler_RequiresUser(t *testing.T) {
	app, s := newRoutedApp()

	resp := doJSON(t, app, http.MethodPost, "/api/learn/questions/q1/submit", "", map[string]interface{}{"code": "print(1)"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	s.submissions.AssertNotCalled(t, "SubmitCodeAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLearnHandler_GetLearnContent_NotFound(t *testing.T) {
	app, s := newRoutedApp()
	s.content.On("GetLearnContent", mock.Anything, "missing").Return(nil, domain.NewNotFoundError("milestone missing not found"))

	resp := doJSON(t, app, http.MethodGet, "/api/learn/milestones/missing/learn", "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLearnHandler_ListMCQQuestions_HidesAnswer(t *testing.T) {
	app, s := newRoutedApp()
	s.content.On("ListMCQQuestions", mock.Anything, "m1").Return([]*domain.MCQQuestion{
		{ID: "mcq1", MilestoneID: "m1", QuestionText: "2+2?", Options: map[string]string{"A": "4", "B": "5"}, CorrectAnswer: "A"},
	}, nil)

	resp := doJSON(t, app, http.MethodGet, "/api/learn/milestones/m1/mcq-questions", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]interface{}
	decodeBody(t, resp, &body)
	require.Len(t, body, 1)
	assert.NotContains(t, body[0], "correct_answer")
}

func TestLearnHandler_SubmitCodeAnswer_Outcomes(t *testing.T) {
	graded := &domain.GradedOutcome{
		Feedback:      &domain.Feedback{Output: "4", IsCorrect: true},
		Answer:        &domain.CodeAnswer{QuestionID: "q1", UserCode: "print(2+2)", Output: "4", IsCorrect: true, Attempts: 1},
		PointsAwarded: 10,
	}

	tests := []struct {
		name       string
		outcome    domain.SubmissionOutcome
		err        error
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:       "graded",
			outcome:    graded,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, true, body["is_correct"])
				assert.Equal(t, float64(10), body["points_awarded"])
				assert.Equal(t, float64(1), body["attempts"])
			},
		},
		{
			name:       "input required",
			outcome:    &domain.InputRequiredOutcome{Message: domain.InputRequiredMessage, StdoutSoFar: "Name: "},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "input_required", body["status"])
				assert.Equal(t, "Name: ", body["stdout_so_far"])
			},
		},
		{
			name:       "validation failed",
			outcome:    &domain.ValidationFailedOutcome{Err: domain.ValidationErrors{domain.NewMissingFieldError("code")}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "sandbox timeout",
			outcome:    &domain.ServiceErrorOutcome{Err: domain.NewExecutionTimeoutError(context.DeadlineExceeded)},
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "grader down",
			outcome:    &domain.ServiceErrorOutcome{Err: domain.NewGradingServiceError(errors.New("503"))},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "malformed feedback",
			outcome:    &domain.ServiceErrorOutcome{Err: domain.NewMalformedFeedbackError("not json", errors.New("eof"))},
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "MALFORMED_FEEDBACK", body["code"])
			},
		},
		{
			name:       "unknown question",
			err:        domain.NewNotFoundError("question q1 not found"),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, s := newRoutedApp()
			s.submissions.On("SubmitCodeAnswer", mock.Anything, "u1", "q1", "print(2+2)", []string{"ada"}).Return(tt.outcome, tt.err)

			resp := doJSON(t, app, http.MethodPost, "/api/learn/questions/q1/submit", "u1", map[string]interface{}{
				"code":   "print(2+2)",
				"inputs": []string{"ada"},
			})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.check != nil {
				var body map[string]interface{}
				decodeBody(t, resp, &body)
				tt.check(t, body)
			}
		})
	}
}

func TestLearnHandler_SubmitCodeAnswer_RejectsBadRequests(t *testing.T) {
	tooMany := make([]string, 51)
	for i := range tooMany {
		tooMany[i] = "x"
	}

	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{"malformed json", `{"code":`, "INVALID_INPUT"},
		{"too many inputs", map[string]interface{}{"code": "print(1)", "inputs": tooMany}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, s := newRoutedApp()
			resp := doJSON(t, app, http.MethodPost, "/api/learn/questions/q1/submit", "u1", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]interface{}
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.code, body["code"])
			s.submissions.AssertNotCalled(t, "SubmitCodeAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLearnHandler_SubmitCodeAnswer_RejectsOversizedID(t *testing.T) {
	app, s := newRoutedApp()
	path := "/api/learn/questions/" + strings.Repeat("q", 65) + "/submit"

	resp := doJSON(t, app, http.MethodPost, path, "u1", map[string]interface{}{"code": "print(1)"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	s.submissions.AssertNotCalled(t, "SubmitCodeAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLearnHandler_SubmitExercise_Graded(t *testing.T) {
	app, s := newRoutedApp()
	outcome := &domain.GradedOutcome{
		Feedback: &domain.Feedback{IsCorrect: true, Encouragement: "Nice!", FocusArea: "loops"},
		Exercise: &domain.PersonalizedExercise{
			ID: "ex1", Question: "Sum a list", Difficulty: domain.DifficultyEasy,
			Encouragement: "Nice!", FocusArea: "loops", IsCompleted: true, Attempts: 2,
		},
		PointsAwarded: 20,
	}
	s.submissions.On("SubmitExercise", mock.Anything, "u1", "ex1", "print(sum([1,2]))", []string(nil)).Return(outcome, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/learn/personalized-exercises/ex1/submit", "u1", map[string]interface{}{
		"code": "print(sum([1,2]))",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "ex1", body["id"])
	assert.Equal(t, "Nice!", body["encouragement"])
	assert.Equal(t, "loops", body["focus_area"])
	assert.Equal(t, true, body["is_completed"])
	assert.Equal(t, float64(20), body["points_awarded"])
}

func TestLearnHandler_SubmitMCQAnswer(t *testing.T) {
	app, s := newRoutedApp()
	s.mcq.On("SubmitAnswer", mock.Anything, "u1", "mcq1", "b").Return(&service.MCQResult{
		IsCorrect: true, CorrectAnswer: "B", Explanation: "because", PointsAwarded: 30,
	}, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/learn/mcq-questions/mcq1/submit", "u1", map[string]interface{}{"selected_option": "b"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, true, body["is_correct"])
	assert.Equal(t, "B", body["correct_answer"])
	assert.Equal(t, float64(30), body["points_awarded"])
}

func TestLearnHandler_SubmitMCQAnswer_MissingOption(t *testing.T) {
	app, s := newRoutedApp()

	resp := doJSON(t, app, http.MethodPost, "/api/learn/mcq-questions/mcq1/submit", "u1", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "selected_option", errs[0].(map[string]interface{})["field"])
	s.mcq.AssertNotCalled(t, "SubmitAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLearnHandler_GetProgress(t *testing.T) {
	app, s := newRoutedApp()
	s.progress.On("GetOrCreate", mock.Anything, "u1").Return(&domain.UserProgress{UserID: "u1", CurrentMilestoneID: "m1", Score: 25}, nil)

	resp := doJSON(t, app, http.MethodGet, "/api/learn/progress", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(25), body["score"])
	assert.Equal(t, []interface{}{}, body["completed_code"])
}

func TestLearnHandler_UpdateMilestone(t *testing.T) {
	app, s := newRoutedApp()
	s.progress.On("UpdateCurrentMilestone", mock.Anything, "u1", "m2").Return(nil)
	s.progress.On("UpdateCurrentMilestone", mock.Anything, "u1", "nope").Return(domain.NewNotFoundError("milestone nope not found"))

	resp := doJSON(t, app, http.MethodPost, "/api/learn/progress/update-milestone", "u1", map[string]interface{}{"milestone_id": "m2"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/learn/progress/update-milestone", "u1", map[string]interface{}{"milestone_id": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/learn/progress/update-milestone", "u1", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLearnHandler_MarkProgress(t *testing.T) {
	app, s := newRoutedApp()
	s.progress.On("MarkMilestone", mock.Anything, "u1", "m1", domain.MarkWatchedVideo).Return(&domain.MarkResult{
		MilestoneID: "m1", Kind: domain.MarkWatchedVideo, Recorded: true, MilestoneCompleted: true, BonusAwarded: true,
	}, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/learn/progress/mark", "u1", map[string]interface{}{"milestone_id": "m1", "kind": "watched_video"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, true, body["milestone_completed"])
	assert.Equal(t, true, body["bonus_awarded"])
}

func TestLearnHandler_MarkProgress_RejectsGradedTracks(t *testing.T) {
	for _, kind := range []string{"completed_code", "completed_exercise", "completed_milestone"} {
		t.Run(kind, func(t *testing.T) {
			app, s := newRoutedApp()

			resp := doJSON(t, app, http.MethodPost, "/api/learn/progress/mark", "u1", map[string]interface{}{"milestone_id": "m1", "kind": kind})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]interface{}
			decodeBody(t, resp, &body)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
			s.progress.AssertNotCalled(t, "MarkMilestone", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLearnHandler_Exercises(t *testing.T) {
	app, s := newRoutedApp()
	ex := &domain.PersonalizedExercise{ID: "ex1", UserID: "u1", Question: "Reverse a string", Difficulty: domain.DifficultyMedium}
	s.exercises.On("List", mock.Anything, "u1").Return([]*domain.PersonalizedExercise{ex}, nil)
	s.exercises.On("Create", mock.Anything, "u1").Return(ex, nil)

	resp := doJSON(t, app, http.MethodGet, "/api/learn/personalized-exercises", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "medium", list[0]["difficulty"])

	resp = doJSON(t, app, http.MethodPost, "/api/learn/personalized-exercises", "u1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decodeBody(t, resp, &created)
	assert.Equal(t, "ex1", created["id"])
}

func TestLearnHandler_CreateExercise_GraderDown(t *testing.T) {
	app, s := newRoutedApp()
	s.exercises.On("Create", mock.Anything, "u1").Return(nil, domain.NewGradingServiceError(errors.New("timeout")))

	resp := doJSON(t, app, http.MethodPost, "/api/learn/personalized-exercises", "u1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestLearnHandler_TrailingSlashTolerated(t *testing.T) {
	app, s := newRoutedApp()
	s.content.On("ListMilestones", mock.Anything).Return([]*domain.Milestone{}, nil)

	resp := doJSON(t, app, http.MethodGet, "/api/learn/milestones/", "u1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
