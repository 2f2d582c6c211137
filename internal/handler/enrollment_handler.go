package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/internal/utils"
)

// EnrollmentHandler wires enrollment, grading and progress routes.
type EnrollmentHandler struct {
	service     service.EnrollmentService
	submitGuard fiber.Handler
	logger      zerolog.Logger
}

// NewEnrollmentHandler constructs the handler. submitGuard, when set, runs before assignment submissions.
func NewEnrollmentHandler(service service.EnrollmentService, submitGuard fiber.Handler, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service:     service,
		submitGuard: submitGuard,
		logger:      logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches enrollment endpoints to the router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("/course-enroll/:courseId/user/:userId", h.enroll)
	router.Delete("/course-unenroll/:courseId/user/:userId", h.unenroll)
	router.Get("/user/:userId", h.listByUser)
	router.Get("/course/:courseId", h.listByCourse)
	router.Get("/state/:courseId/user/:userId", h.state)
	router.Get("/attempts/:courseId/user/:userId", h.attempts)

	if h.submitGuard != nil {
		router.Post("/submit-assignment/:courseId/user/:userId", h.submitGuard, h.submit)
	} else {
		router.Post("/submit-assignment/:courseId/user/:userId", h.submit)
	}
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	course, err := h.service.Enroll(c.UserContext(), c.Params("courseId"), c.Params("userId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "user enrolled successfully", course)
}

func (h *EnrollmentHandler) unenroll(c *fiber.Ctx) error {
	if err := h.service.Unenroll(c.UserContext(), c.Params("courseId"), c.Params("userId")); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "user unenrolled successfully", nil)
}

func (h *EnrollmentHandler) listByUser(c *fiber.Ctx) error {
	enrollments, err := h.service.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}

func (h *EnrollmentHandler) listByCourse(c *fiber.Ctx) error {
	enrollments, err := h.service.ListByCourse(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}

func (h *EnrollmentHandler) state(c *fiber.Ctx) error {
	state, err := h.service.State(c.UserContext(), c.Params("courseId"), c.Params("userId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "enrollment state retrieved", state)
}

func (h *EnrollmentHandler) submit(c *fiber.Ctx) error {
	var answers []dto.SubmittedAnswer
	if err := c.BodyParser(&answers); err != nil {
		return invalidBody(c)
	}

	result, err := h.service.SubmitAnswers(c.UserContext(), c.Params("courseId"), c.Params("userId"), answers)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignment graded", result)
}

func (h *EnrollmentHandler) attempts(c *fiber.Ctx) error {
	attempts, err := h.service.Attempts(c.UserContext(), c.Params("courseId"), c.Params("userId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "attempts retrieved", attempts)
}
