package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/learnhub-api/internal/utils"
)

// AdminSecret rejects requests whose "secret" query parameter does not match the configured admin secret.
func AdminSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := c.Query("secret")
		if provided == "" || secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return utils.SendError(c, fiber.StatusForbidden, "invalid admin secret")
		}
		return c.Next()
	}
}
