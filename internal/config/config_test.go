package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("LMS_JWT_SECRET", "secret")
	t.Setenv("LMS_DATABASE_URL", "postgres://localhost/lms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "LearnHub API", cfg.AppName)
	require.Equal(t, ":3000", cfg.HTTPAddress())
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.JWTRefreshTTL)
	require.Equal(t, "admin", cfg.AdminSecret)
	require.Equal(t, "lms.enrollments", cfg.NATSSubject)
	require.Equal(t, 10, cfg.SubmissionRateLimit)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("LMS_JWT_SECRET", "secret")
	t.Setenv("LMS_APP_PORT", ":9000")
	t.Setenv("LMS_DATABASE_DRIVER", "SQLite")
	t.Setenv("LMS_JWT_ACCESS_TTL", "15m")
	t.Setenv("LMS_ADMIN_SECRET", "s3cret")
	t.Setenv("LMS_FRONTEND_URL", "https://learn.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTPAddress())
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	require.Equal(t, "s3cret", cfg.AdminSecret)
	require.Equal(t, "https://learn.example.com", cfg.FrontendURL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("LMS_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("LMS_JWT_SECRET", "secret")
	t.Setenv("LMS_DATABASE_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}
