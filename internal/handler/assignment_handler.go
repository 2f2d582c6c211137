package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/internal/utils"
)

// AssignmentHandler wires course assignment routes.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment endpoints to the router group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Post("/course/:courseId", h.create)
	router.Get("/course/:courseId", h.get)
	router.Patch("/course/:courseId", h.update)
	router.Delete("/course/:courseId", h.delete)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	assignment, err := h.service.Create(c.UserContext(), c.Params("courseId"), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Created(c, assignment, "assignment created")
}

// get returns the learner projection, or the projection with answers when adminSecret is supplied.
func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	if secret, ok := c.Queries()["adminSecret"]; ok {
		assignment, err := h.service.GetWithAnswers(c.UserContext(), courseID, secret)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		return utils.SendSuccess(c, "assignment retrieved", assignment)
	}

	assignment, err := h.service.Get(c.UserContext(), courseID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	assignment, err := h.service.Update(c.UserContext(), c.Params("courseId"), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignment updated", assignment)
}

func (h *AssignmentHandler) delete(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	if err := h.service.Delete(c.UserContext(), courseID); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignment deleted", fiber.Map{"courseId": courseID})
}
