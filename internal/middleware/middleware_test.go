package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/middleware"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func jwtApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/", middleware.JWTProtected(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals("user_id"), "role": c.Locals("user_role")})
	})
	return app
}

func TestJWTProtectedSetsLocals(t *testing.T) {
	app := jwtApp("secret")
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":     "abc",
		"isAdmin": true,
		"typ":     "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "abc", body["id"])
	require.Equal(t, middleware.RoleAdmin, body["role"])
}

func TestJWTProtectedRejectsInvalidTokens(t *testing.T) {
	app := jwtApp("secret")
	expired := signToken(t, "secret", jwt.MapClaims{"sub": "abc", "exp": time.Now().Add(-time.Minute).Unix()})
	wrongKey := signToken(t, "other", jwt.MapClaims{"sub": "abc", "exp": time.Now().Add(time.Hour).Unix()})
	refresh := signToken(t, "secret", jwt.MapClaims{"sub": "abc", "typ": "refresh", "exp": time.Now().Add(time.Hour).Unix()})

	for name, header := range map[string]string{
		"missing": "",
		"scheme":  "Basic abc",
		"expired": "Bearer " + expired,
		"key":     "Bearer " + wrongKey,
		"refresh": "Bearer " + refresh,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
}

func TestAdminSecret(t *testing.T) {
	app := fiber.New()
	app.Get("/", middleware.AdminSecret("s3cret"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	require.Equal(t, fiber.StatusOK, performPath(t, app, "/?secret=s3cret").StatusCode)
	require.Equal(t, fiber.StatusForbidden, performPath(t, app, "/?secret=wrong").StatusCode)
	require.Equal(t, fiber.StatusForbidden, performPath(t, app, "/?secret=").StatusCode)
	require.Equal(t, fiber.StatusForbidden, performPath(t, app, "/").StatusCode)
}

func TestRateLimitKeysByParam(t *testing.T) {
	app := fiber.New()
	app.Get("/users/:userId", middleware.RateLimit("submit", "userId", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	require.Equal(t, fiber.StatusOK, performPath(t, app, "/users/a").StatusCode)
	require.Equal(t, fiber.StatusTooManyRequests, performPath(t, app, "/users/a").StatusCode)
	require.Equal(t, fiber.StatusOK, performPath(t, app, "/users/b").StatusCode)
}

func TestRegisterAddsCorrelationID(t *testing.T) {
	app := fiber.New()
	logger := zerolog.Nop()
	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.SendString(middleware.GetCorrelationID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Correlation-ID", "corr-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "corr-123", resp.Header.Get("X-Correlation-ID"))

	generated := performPath(t, app, "/api/ping")
	require.NotEmpty(t, generated.Header.Get("X-Correlation-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Correlation-ID", strings.Repeat("x", 500))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Len(t, resp.Header.Get("X-Correlation-ID"), 36, "oversized identifiers are replaced")
}

func TestCorrelationIDReachesUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(middleware.CorrelationIDFromContext(c.UserContext()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "req-42", string(body))
}

func TestContextWithCorrelation(t *testing.T) {
	ctx := middleware.ContextWithCorrelation(context.Background(), "  abc ")
	require.Equal(t, "abc", middleware.CorrelationIDFromContext(ctx))

	unchanged := middleware.ContextWithCorrelation(context.Background(), " ")
	require.Empty(t, middleware.CorrelationIDFromContext(unchanged))
}

func TestObservabilityLogsResolvedStatus(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)

	app := fiber.New()
	app.Use(middleware.CorrelationID())
	app.Use(middleware.Observability(logger))
	app.Get("/api/courses/:id", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "course not found")
	})
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/courses/42", nil)
	req.Header.Set("X-Correlation-ID", "obs-1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	line := buf.String()
	require.Contains(t, line, `"status":404`)
	require.Contains(t, line, `"route":"/api/courses/:id"`)
	require.Contains(t, line, `"correlation_id":"obs-1"`)
	require.Contains(t, line, `"level":"warn"`)

	buf.Reset()
	require.Equal(t, fiber.StatusOK, performPath(t, app, "/health").StatusCode)
	require.Empty(t, buf.String(), "only api routes are logged")
}
