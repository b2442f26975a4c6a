package handler

import (
	"pywhiz/internal/domain"
	"pywhiz/internal/logger"
	"pywhiz/internal/middleware"
	"pywhiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// bindJSON parses the body into out and validates it. A missing body decodes as an empty object.
func bindJSON(c *fiber.Ctx, v *validation.Validator, out interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			logger.Get().Warn("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
			return domain.NewInvalidInputError("Invalid request body")
		}
	}
	if errs := v.ValidateStruct(out); len(errs) > 0 {
		return errs
	}
	return nil
}

func requireUser(c *fiber.Ctx) (string, error) {
	userID := middleware.UserID(c)
	if userID == "" {
		logger.Get().Warn("User ID not found in context", zap.String("path", c.Path()))
		return "", domain.NewUnauthorizedError("User ID not found in context")
	}
	return userID, nil
}
