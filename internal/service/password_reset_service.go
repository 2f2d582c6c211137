package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

// PasswordResetRequestedMessage is returned whether or not the email belongs to an account.
const PasswordResetRequestedMessage = "If an account exists with this email, a password reset link has been sent"

const resetTokenTTL = time.Hour

// PasswordResetService issues and redeems mailed password reset tokens.
type PasswordResetService interface {
	Request(ctx context.Context, payload dto.PasswordResetRequest) error
	Reset(ctx context.Context, payload dto.PasswordResetConfirmRequest) error
}

type passwordResetService struct {
	users       repository.UserRepository
	mailer      Mailer
	validator   *validator.Validate
	frontendURL string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewPasswordResetService builds the password reset service. Links point at frontendURL.
func NewPasswordResetService(users repository.UserRepository, mailer Mailer, validate *validator.Validate, frontendURL string, logger zerolog.Logger) PasswordResetService {
	return &passwordResetService{
		users:       users,
		mailer:      mailer,
		validator:   validate,
		frontendURL: frontendURL,
		logger:      logger.With().Str("component", "password_reset_service").Logger(),
		now:         time.Now,
	}
}

// Request stores a fresh reset token for the account and mails the reset link.
// Unknown emails succeed silently so the endpoint cannot be used to probe accounts.
func (s *passwordResetService) Request(ctx context.Context, payload dto.PasswordResetRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpires = &expires
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(token))
	if err := s.mailer.Send(ctx, user.Email, "Password Reset Request", resetPlainBody(link), resetHTMLBody(link)); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to send password reset email")
		return nil
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset link sent")
	return nil
}

func (s *passwordResetService) Reset(ctx context.Context, payload dto.PasswordResetConfirmRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByResetToken(ctx, payload.Token)
	if err != nil {
		return translateNotFound(err, ErrInvalidResetToken)
	}
	if !user.HasValidResetToken(payload.Token, s.now()) {
		return ErrInvalidResetToken
	}

	hash, err := hashPassword(payload.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	user.ResetToken = nil
	user.ResetTokenExpires = nil
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func resetPlainBody(link string) string {
	return "You requested a password reset. Open the link below to choose a new password:\n\n" +
		link + "\n\nThis link will expire in 1 hour. If you didn't request this, please ignore this email."
}

func resetHTMLBody(link string) string {
	return `<h1>Password Reset Request</h1>
<p>You requested a password reset. Click the link below to reset your password:</p>
<a href="` + link + `">Reset Password</a>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request this, please ignore this email.</p>`
}
