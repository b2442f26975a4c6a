package handler

import (
	"fmt"

	"pywhiz/internal/domain"
	"pywhiz/internal/dto"
	"pywhiz/internal/logger"
	"pywhiz/internal/service"
	"pywhiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LearnHandler serves the /api/learn routes.
type LearnHandler struct {
	content     service.ContentService
	submissions service.SubmissionService
	mcq         service.MCQService
	progress    service.ProgressService
	exercises   service.ExerciseService
	validator   *validation.Validator
}

func NewLearnHandler(
	content service.ContentService,
	submissions service.SubmissionService,
	mcq service.MCQService,
	progress service.ProgressService,
	exercises service.ExerciseService,
	validator *validation.Validator,
) *LearnHandler {
	return &LearnHandler{
		content:     content,
		submissions: submissions,
		mcq:         mcq,
		progress:    progress,
		exercises:   exercises,
		validator:   validator,
	}
}

// ListMilestones godoc
// @Summary List milestones
// @Description Returns all active milestones in course order
// @Tags learn
// @Produce json
// @Success 200 {array} dto.MilestoneResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /learn/milestones [get]
func (h *LearnHandler) ListMilestones(c *fiber.Ctx) error {
	items, err := h.content.ListMilestones(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMilestoneResponses(items))
}

// GetLearnContent godoc
// @Summary Get learn content
// @Description Returns the videos and notes of a milestone
// @Tags learn
// @Produce json
// @Param id path string true "Milestone ID"
// @Success 200 {array} dto.LearnContentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /learn/milestones/{id}/learn [get]
func (h *LearnHandler) GetLearnContent(c *fiber.Ctx) error {
	items, err := h.content.GetLearnContent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLearnContentResponses(items))
}

// ListCodeQuestions godoc
// @Summary List code questions
// @Tags learn
// @Produce json
// @Param id path string true "Milestone ID"
// @Success 200 {array} dto.CodeQuestionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /learn/milestones/{id}/questions [get]
func (h *LearnHandler) ListCodeQuestions(c *fiber.Ctx) error {
	items, err := h.content.ListCodeQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCodeQuestionResponses(items))
}

// ListMCQQuestions godoc
// @Summary List multiple-choice questions
// @Description Correct answers are never included
// @Tags learn
// @Produce json
// @Param id path string true "Milestone ID"
// @Success 200 {array} dto.MCQQuestionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /learn/milestones/{id}/mcq-questions [get]
func (h *LearnHandler) ListMCQQuestions(c *fiber.Ctx) error {
	items, err := h.content.ListMCQQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMCQQuestionResponses(items))
}

// SubmitCodeAnswer godoc
// @Summary Submit code for a question
// @Description Runs the code in the sandbox and grades it. Returns input_required when the program waits on stdin.
// @Tags learn
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param body body dto.SubmitCodeRequest true "Code and stdin lines"
// @Success 200 {object} dto.CodeAnswerResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse
// @Router /learn/questions/{id}/submit [post]
func (h *LearnHandler) SubmitCodeAnswer(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.SubmitCodeRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	outcome, err := h.submissions.SubmitCodeAnswer(c.UserContext(), userID, c.Params("id"), req.Code, req.Inputs)
	if err != nil {
		return err
	}
	return h.renderOutcome(c, outcome, func(o *domain.GradedOutcome) interface{} {
		return dto.NewCodeAnswerResponse(o)
	})
}

// SubmitExercise godoc
// @Summary Submit code for a personalized exercise
// @Tags learn
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Exercise ID"
// @Param body body dto.SubmitCodeRequest true "Code and stdin lines"
// @Success 200 {object} dto.ExerciseSubmitResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /learn/personalized-exercises/{id}/submit [post]
func (h *LearnHandler) SubmitExercise(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.SubmitCodeRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	outcome, err := h.submissions.SubmitExercise(c.UserContext(), userID, c.Params("id"), req.Code, req.Inputs)
	if err != nil {
		return err
	}
	return h.renderOutcome(c, outcome, func(o *domain.GradedOutcome) interface{} {
		return dto.ExerciseSubmitResponse{
			ExerciseResponse: dto.NewExerciseResponse(o.Exercise),
			PointsAwarded:    o.PointsAwarded,
		}
	})
}

func (h *LearnHandler) renderOutcome(c *fiber.Ctx, outcome domain.SubmissionOutcome, graded func(*domain.GradedOutcome) interface{}) error {
	switch o := outcome.(type) {
	case *domain.GradedOutcome:
		return c.JSON(graded(o))
	case *domain.InputRequiredOutcome:
		return c.JSON(dto.NewInputRequiredResponse(o))
	case *domain.ValidationFailedOutcome:
		return o.Err
	case *domain.ServiceErrorOutcome:
		return o.Err
	default:
		logger.Get().Error("Unknown submission outcome", zap.String("type", fmt.Sprintf("%T", outcome)))
		return domain.NewInternalError("Unknown submission outcome", nil)
	}
}

// SubmitMCQAnswer godoc
// @Summary Answer a multiple-choice question
// @Tags learn
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "MCQ question ID"
// @Param body body dto.SubmitMCQRequest true "Selected option letter"
// @Success 200 {object} dto.MCQSubmitResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /learn/mcq-questions/{id}/submit [post]
func (h *LearnHandler) SubmitMCQAnswer(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.SubmitMCQRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	res, err := h.mcq.SubmitAnswer(c.UserContext(), userID, c.Params("id"), req.SelectedOption)
	if err != nil {
		return err
	}
	return c.JSON(dto.MCQSubmitResponse{
		IsCorrect:     res.IsCorrect,
		CorrectAnswer: res.CorrectAnswer,
		Explanation:   res.Explanation,
		PointsAwarded: res.PointsAwarded,
	})
}

// GetProgress godoc
// @Summary Get my progress
// @Description Creates the progress row on first access
// @Tags progress
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.ProgressResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /learn/progress [get]
func (h *LearnHandler) GetProgress(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	p, err := h.progress.GetOrCreate(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProgressResponse(p))
}

// UpdateMilestone godoc
// @Summary Move to another milestone
// @Tags progress
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.UpdateMilestoneRequest true "Target milestone"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /learn/progress/update-milestone [post]
func (h *LearnHandler) UpdateMilestone(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateMilestoneRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	if err := h.progress.UpdateCurrentMilestone(c.UserContext(), userID, req.MilestoneID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Milestone updated"})
}

// MarkProgress godoc
// @Summary Record a watched video
// @Description Awards the milestone bonus once all tracks are present. Code and exercise tracks come from graded submissions.
// @Tags progress
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.MarkProgressRequest true "Milestone and track kind"
// @Success 200 {object} domain.MarkResult
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /learn/progress/mark [post]
func (h *LearnHandler) MarkProgress(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.MarkProgressRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	kind, err := domain.ParseTrackKind(req.Kind)
	if err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("kind", req.Kind)}
	}

	res, err := h.progress.MarkMilestone(c.UserContext(), userID, req.MilestoneID, kind)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// ListExercises godoc
// @Summary List my personalized exercises
// @Tags exercises
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.ExerciseResponse
// @Router /learn/personalized-exercises [get]
func (h *LearnHandler) ListExercises(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	items, err := h.exercises.List(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewExerciseResponses(items))
}

// CreateExercise godoc
// @Summary Generate a personalized exercise
// @Description Difficulty follows the number of code submissions so far
// @Tags exercises
// @Security ApiKeyAuth
// @Produce json
// @Success 201 {object} dto.ExerciseResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /learn/personalized-exercises [post]
func (h *LearnHandler) CreateExercise(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	ex, err := h.exercises.Create(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewExerciseResponse(ex))
}
