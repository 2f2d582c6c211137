package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseDriver      string
	DatabaseURL         string
	DatabaseLogSQL      bool
	RedisURL            string
	NATSURL             string
	NATSSubject         string
	JWTSecret           string
	JWTAccessTTL        time.Duration
	JWTRefreshTTL       time.Duration
	AdminSecret         string
	SendGridAPIKey      string
	MailFrom            string
	FrontendURL         string
	SubmissionRateLimit int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LearnHub API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3000")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.log_sql", false)
	v.SetDefault("nats.subject", "lms.enrollments")
	v.SetDefault("jwt.access_ttl", "24h")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("admin.secret", "admin")
	v.SetDefault("mail.from", "no-reply@example.com")
	v.SetDefault("frontend.url", "http://localhost:3000")
	v.SetDefault("submission.rate_limit", 10)

	accessTTL, err := parseDuration(v.GetString("jwt.access_ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt access ttl: %w", err)
	}

	refreshTTL, err := parseDuration(v.GetString("jwt.refresh_ttl"), 7*24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt refresh ttl: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseDriver:      strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:         v.GetString("database.url"),
		DatabaseLogSQL:      v.GetBool("database.log_sql"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		NATSSubject:         v.GetString("nats.subject"),
		JWTSecret:           v.GetString("jwt.secret"),
		JWTAccessTTL:        accessTTL,
		JWTRefreshTTL:       refreshTTL,
		AdminSecret:         v.GetString("admin.secret"),
		SendGridAPIKey:      v.GetString("mail.sendgrid_key"),
		MailFrom:            v.GetString("mail.from"),
		FrontendURL:         strings.TrimRight(v.GetString("frontend.url"), "/"),
		SubmissionRateLimit: v.GetInt("submission.rate_limit"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite" {
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.SubmissionRateLimit <= 0 {
		cfg.SubmissionRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
