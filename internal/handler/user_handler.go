package handler

import (
	"pywhiz/internal/domain"
	"pywhiz/internal/dto"
	"pywhiz/internal/logger"
	"pywhiz/internal/service"
	"pywhiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService service.UserService
	validator   *validation.Validator
}

func NewUserHandler(userService service.UserService, validator *validation.Validator) *UserHandler {
	return &UserHandler{userService: userService, validator: validator}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUserProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserProfileResponse(user))
}

// GetMySubmissions lists the user's code submissions, newest first.
// @Summary Get My Submissions
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Items per page (default 20, max 100)"
// @Success 200 {object} dto.SubmissionHistoryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/submissions [get]
func (h *UserHandler) GetMySubmissions(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var p dto.Pagination
	if err := c.QueryParser(&p); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("page", c.Query("page"))}
	}
	if errs := h.validator.ValidateStruct(&p); len(errs) > 0 {
		return errs
	}
	limit, offset := p.Normalize()

	items, total, err := h.userService.ListSubmissions(c.UserContext(), userID, limit, offset)
	if err != nil {
		return err
	}
	logger.Get().Debug("Submission history requested", zap.String("userID", userID), zap.Int("total", total))
	return c.JSON(dto.NewSubmissionHistoryResponse(items, p, total))
}
