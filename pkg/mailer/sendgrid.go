package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// Config contains the credentials and sender identity used for SendGrid.
type Config struct {
	APIKey   string
	FromName string
	From     string
	Host     string
}

// SendGrid delivers transactional email through the SendGrid v3 API.
type SendGrid struct {
	key    string
	host   string
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendGrid constructs a SendGrid mailer.
func NewSendGrid(cfg Config, logger zerolog.Logger) (*SendGrid, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key must be provided")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("sender address must be provided")
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}

	return &SendGrid{
		key:    cfg.APIKey,
		host:   host,
		from:   sgmail.NewEmail(cfg.FromName, cfg.From),
		logger: logger.With().Str("component", "sendgrid_mailer").Logger(),
	}, nil
}

// Send posts a single message with plain text and HTML bodies.
func (s *SendGrid) Send(ctx context.Context, to, subject, plainBody, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	personalization := sgmail.NewPersonalization()
	personalization.Subject = subject
	personalization.AddTos(sgmail.NewEmail("", to))

	message := sgmail.NewV3Mail()
	message.SetFrom(s.from)
	message.AddPersonalizations(personalization)
	message.AddContent(
		sgmail.NewContent("text/plain", plainBody),
		sgmail.NewContent("text/html", htmlBody),
	)

	request := sendgrid.GetRequest(s.key, endpoint, s.host)
	request.Method = http.MethodPost
	request.Body = sgmail.GetRequestBody(message)

	response, err := sendgrid.API(request)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected message: status %d", response.StatusCode)
	}

	s.logger.Debug().Int("status", response.StatusCode).Msg("email accepted")
	return nil
}

// Log writes outgoing email to the service log instead of delivering it.
type Log struct {
	logger zerolog.Logger
}

// NewLog constructs a logging mailer for environments without an email provider.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "log_mailer").Logger()}
}

// Send logs the message metadata and body, returning nil.
func (l *Log) Send(_ context.Context, to, subject, plainBody, _ string) error {
	l.logger.Info().Str("to", to).Str("subject", subject).Str("body", plainBody).Msg("email delivery skipped")
	return nil
}
