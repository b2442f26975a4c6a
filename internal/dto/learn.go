package dto

import (
	"time"

	"pywhiz/internal/domain"
)

// MaxStdinLines bounds the inputs array of a code submission.
const MaxStdinLines = 50

type MilestoneResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func NewMilestoneResponses(items []*domain.Milestone) []MilestoneResponse {
	out := make([]MilestoneResponse, 0, len(items))
	for _, m := range items {
		out = append(out, MilestoneResponse{ID: m.ID, Title: m.Title, Description: m.Description, Order: m.Order})
	}
	return out
}

type LearnContentResponse struct {
	ID                  string                 `json:"id"`
	MilestoneID         string                 `json:"milestone_id"`
	Title               string                 `json:"title"`
	VideoURL            string                 `json:"video_url,omitempty"`
	AudioURL            string                 `json:"audio_url,omitempty"`
	Transcript          string                 `json:"transcript,omitempty"`
	AdditionalResources map[string]interface{} `json:"additional_resources,omitempty"`
	Order               int                    `json:"order"`
	IsAdditional        bool                   `json:"is_additional"`
}

func NewLearnContentResponses(items []*domain.LearnContent) []LearnContentResponse {
	out := make([]LearnContentResponse, 0, len(items))
	for _, c := range items {
		out = append(out, LearnContentResponse{
			ID:                  c.ID,
			MilestoneID:         c.MilestoneID,
			Title:               c.Title,
			VideoURL:            c.VideoURL,
			AudioURL:            c.AudioURL,
			Transcript:          c.Transcript,
			AdditionalResources: c.AdditionalResources,
			Order:               c.Order,
			IsAdditional:        c.IsAdditional,
		})
	}
	return out
}

type CodeQuestionResponse struct {
	ID          string `json:"id"`
	MilestoneID string `json:"milestone_id"`
	Question    string `json:"question"`
	ExampleCode string `json:"example_code,omitempty"`
	Hint        string `json:"hint,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
}

func NewCodeQuestionResponses(items []*domain.CodeQuestion) []CodeQuestionResponse {
	out := make([]CodeQuestionResponse, 0, len(items))
	for _, q := range items {
		out = append(out, CodeQuestionResponse{
			ID:          q.ID,
			MilestoneID: q.MilestoneID,
			Question:    q.Question,
			ExampleCode: q.ExampleCode,
			Hint:        q.Hint,
			VideoURL:    q.VideoURL,
			AudioURL:    q.AudioURL,
		})
	}
	return out
}

// MCQQuestionResponse never carries the correct answer.
type MCQQuestionResponse struct {
	ID           string            `json:"id"`
	MilestoneID  string            `json:"milestone_id"`
	QuestionText string            `json:"question_text"`
	Options      map[string]string `json:"options"`
	Order        int               `json:"order"`
}

func NewMCQQuestionResponses(items []*domain.MCQQuestion) []MCQQuestionResponse {
	out := make([]MCQQuestionResponse, 0, len(items))
	for _, q := range items {
		out = append(out, MCQQuestionResponse{
			ID:           q.ID,
			MilestoneID:  q.MilestoneID,
			QuestionText: q.QuestionText,
			Options:      q.Options,
			Order:        q.Order,
		})
	}
	return out
}

// SubmitCodeRequest is the body of both code submit endpoints. Blank code is rejected by the service.
// @Description Request body for submitting code
type SubmitCodeRequest struct {
	Code   string   `json:"code"`
	Inputs []string `json:"inputs" validate:"max=50"`
}

// InputRequiredResponse is returned with 200 when the program blocked on stdin.
type InputRequiredResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	StdoutSoFar string `json:"stdout_so_far"`
}

const StatusInputRequired = "input_required"

func NewInputRequiredResponse(o *domain.InputRequiredOutcome) *InputRequiredResponse {
	return &InputRequiredResponse{Status: StatusInputRequired, Message: o.Message, StdoutSoFar: o.StdoutSoFar}
}

// CodeAnswerResponse is the stored answer row plus the feedback that produced it.
type CodeAnswerResponse struct {
	QuestionID    string `json:"question_id"`
	UserCode      string `json:"user_code"`
	Output        string `json:"output"`
	Hints         string `json:"hints"`
	Suggestions   string `json:"suggestions"`
	IsCorrect     bool   `json:"is_correct"`
	Attempts      int    `json:"attempts"`
	PointsAwarded int    `json:"points_awarded"`
}

func NewCodeAnswerResponse(o *domain.GradedOutcome) *CodeAnswerResponse {
	a := o.Answer
	return &CodeAnswerResponse{
		QuestionID:    a.QuestionID,
		UserCode:      a.UserCode,
		Output:        a.Output,
		Hints:         a.Hints,
		Suggestions:   a.Suggestions,
		IsCorrect:     a.IsCorrect,
		Attempts:      a.Attempts,
		PointsAwarded: o.PointsAwarded,
	}
}

// SubmitMCQRequest carries the selected option letter.
// @Description Request body for answering a multiple-choice question
type SubmitMCQRequest struct {
	SelectedOption string `json:"selected_option" validate:"required"`
}

type MCQSubmitResponse struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	PointsAwarded int    `json:"points_awarded"`
}

type ProgressResponse struct {
	UserID              string   `json:"user_id"`
	CurrentMilestoneID  string   `json:"current_milestone_id,omitempty"`
	Score               int      `json:"score"`
	WatchedVideos       []string `json:"watched_videos"`
	CompletedCode       []string `json:"completed_code"`
	CompletedExercises  []string `json:"completed_exercises"`
	CompletedMilestones []string `json:"completed_milestones"`
}

func NewProgressResponse(p *domain.UserProgress) *ProgressResponse {
	return &ProgressResponse{
		UserID:              p.UserID,
		CurrentMilestoneID:  p.CurrentMilestoneID,
		Score:               p.Score,
		WatchedVideos:       nonNil(p.WatchedVideos),
		CompletedCode:       nonNil(p.CompletedCode),
		CompletedExercises:  nonNil(p.CompletedExercises),
		CompletedMilestones: nonNil(p.CompletedMilestones),
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

type UpdateMilestoneRequest struct {
	MilestoneID string `json:"milestone_id" validate:"required"`
}

// MarkProgressRequest records a watched video. The code and exercise tracks are only set by graded submissions.
type MarkProgressRequest struct {
	MilestoneID string `json:"milestone_id" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=watched_video"`
}

type ExerciseResponse struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	GeneratedCode string    `json:"generated_code,omitempty"`
	Difficulty    string    `json:"difficulty"`
	Output        string    `json:"output,omitempty"`
	Hints         string    `json:"hints,omitempty"`
	Suggestions   string    `json:"suggestions,omitempty"`
	Encouragement string    `json:"encouragement,omitempty"`
	FocusArea     string    `json:"focus_area,omitempty"`
	IsCompleted   bool      `json:"is_completed"`
	Attempts      int       `json:"attempts"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewExerciseResponse(e *domain.PersonalizedExercise) ExerciseResponse {
	return ExerciseResponse{
		ID:            e.ID,
		Question:      e.Question,
		GeneratedCode: e.GeneratedCode,
		Difficulty:    string(e.Difficulty),
		Output:        e.Output,
		Hints:         e.Hints,
		Suggestions:   e.Suggestions,
		Encouragement: e.Encouragement,
		FocusArea:     e.FocusArea,
		IsCompleted:   e.IsCompleted,
		Attempts:      e.Attempts,
		CreatedAt:     e.CreatedAt,
	}
}

func NewExerciseResponses(items []*domain.PersonalizedExercise) []ExerciseResponse {
	out := make([]ExerciseResponse, 0, len(items))
	for _, e := range items {
		out = append(out, NewExerciseResponse(e))
	}
	return out
}

// ExerciseSubmitResponse is the updated exercise after a graded submission.
type ExerciseSubmitResponse struct {
	ExerciseResponse
	PointsAwarded int `json:"points_awarded"`
}
