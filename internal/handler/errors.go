package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/internal/utils"
)

var (
	notFoundErrors = []error{
		service.ErrEnrollmentNotFound,
		service.ErrCourseNotFound,
		service.ErrUserNotFound,
		service.ErrAdminNotFound,
		service.ErrAssignmentNotFound,
	}
	forbiddenErrors = []error{
		service.ErrAlreadyEnrolled,
		service.ErrTestAlreadyPassed,
		service.ErrRetryCooldown,
		service.ErrAssignmentExists,
	}
	badRequestErrors = []error{
		service.ErrNoQuestions,
		service.ErrIncompleteSubmission,
		service.ErrInvalidQuestionID,
		service.ErrInvalidUserType,
		service.ErrAdminEmailTaken,
		service.ErrUserExists,
		service.ErrInvalidRefreshToken,
		service.ErrInvalidResetToken,
	}
	conflictErrors = []error{
		service.ErrEmailTaken,
		service.ErrCourseTitleTaken,
	}
	unauthorizedErrors = []error{
		service.ErrInvalidCredentials,
		service.ErrInvalidAdminSecret,
	}
)

// statusForError maps domain errors onto HTTP status codes. Unknown errors are 500.
func statusForError(err error) int {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return fiber.StatusBadRequest
	case matchesAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case matchesAny(err, forbiddenErrors):
		return fiber.StatusForbidden
	case matchesAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	case matchesAny(err, conflictErrors):
		return fiber.StatusConflict
	case matchesAny(err, unauthorizedErrors):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError writes the error envelope for err, logging unexpected failures.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(validationErrors))
	}

	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return utils.SendError(c, status, "internal server error")
	}
	return utils.SendError(c, status, err.Error())
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func validationDetails(errs validator.ValidationErrors) []fieldError {
	details := make([]fieldError, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fieldError{Field: fe.Namespace(), Rule: fe.Tag()})
	}
	return details
}
