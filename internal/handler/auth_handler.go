package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/internal/utils"
)

// AuthHandler wires authentication, session and password reset routes.
type AuthHandler struct {
	auth          service.AuthService
	passwordReset service.PasswordResetService
	jwtMiddleware fiber.Handler
	logger        zerolog.Logger
}

// NewAuthHandler constructs the handler. jwtMiddleware guards the logged-in user listings.
func NewAuthHandler(auth service.AuthService, passwordReset service.PasswordResetService, jwtMiddleware fiber.Handler, logger zerolog.Logger) *AuthHandler {
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &AuthHandler{
		auth:          auth,
		passwordReset: passwordReset,
		jwtMiddleware: jwtMiddleware,
		logger:        logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth endpoints to the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/sign-up", h.signUp)
	router.Post("/sign-in", h.signIn)
	router.Post("/sign-in/admin", h.signInAdmin)
	router.Post("/refresh-token", h.refresh)
	router.Post("/sign-out", h.signOut)
	signedIn := middleware.AuthOptions{RequireUser: true}
	router.Post("/logged-in-users-count", h.jwtMiddleware, middleware.WithAuth(h.loggedInUsersCount, signedIn))
	router.Post("/logged-in-users", h.jwtMiddleware, middleware.WithAuth(h.loggedInUsers, signedIn))

	if h.passwordReset != nil {
		router.Post("/password-reset/request", h.requestPasswordReset)
		router.Post("/password-reset/reset", h.resetPassword)
	}
}

func (h *AuthHandler) signUp(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	result, err := h.auth.SignUp(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "user signed up", result)
}

func (h *AuthHandler) signIn(c *fiber.Ctx) error {
	var payload dto.SignInRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	result, err := h.auth.SignIn(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "signed in", result)
}

func (h *AuthHandler) signInAdmin(c *fiber.Ctx) error {
	var payload dto.SignInRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	result, err := h.auth.SignInAdmin(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "admin signed in", result)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshTokenRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	result, err := h.auth.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "token refreshed", result)
}

func (h *AuthHandler) signOut(c *fiber.Ctx) error {
	var payload dto.RefreshTokenRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	if err := h.auth.SignOut(c.UserContext(), payload.RefreshToken); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "signed out", nil)
}

func (h *AuthHandler) loggedInUsersCount(c *fiber.Ctx) error {
	count, err := h.auth.LoggedInUsersCount(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "logged in users counted", dto.LoggedInCountResponse{Count: count})
}

func (h *AuthHandler) loggedInUsers(c *fiber.Ctx) error {
	users, err := h.auth.LoggedInUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.OK(c, users, "logged in users retrieved", fiber.Map{"total": len(users)})
}

func (h *AuthHandler) requestPasswordReset(c *fiber.Ctx) error {
	var payload dto.PasswordResetRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	if err := h.passwordReset.Request(c.UserContext(), payload); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, service.PasswordResetRequestedMessage, nil)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var payload dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	if err := h.passwordReset.Reset(c.UserContext(), payload); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "password has been reset", nil)
}
