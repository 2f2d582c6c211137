package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

// AuthService handles sign-up, sign-in, token refresh and session tracking.
type AuthService interface {
	SignUp(ctx context.Context, payload dto.UserCreateRequest) (dto.AuthResponse, error)
	SignIn(ctx context.Context, payload dto.SignInRequest) (dto.AuthResponse, error)
	SignInAdmin(ctx context.Context, payload dto.SignInRequest) (dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (dto.AccessTokenResponse, error)
	SignOut(ctx context.Context, refreshToken string) error
	LoggedInUsers(ctx context.Context) ([]interface{}, error)
	LoggedInUsersCount(ctx context.Context) (int64, error)
}

type authService struct {
	users     repository.UserRepository
	admins    repository.AdminRepository
	tokens    *TokenIssuer
	sessions  SessionTracker
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService builds the authentication service.
func NewAuthService(users repository.UserRepository, admins repository.AdminRepository, tokens *TokenIssuer, sessions SessionTracker, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		admins:    admins,
		tokens:    tokens,
		sessions:  sessions,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) SignUp(ctx context.Context, payload dto.UserCreateRequest) (dto.AuthResponse, error) {
	user, err := createUser(ctx, s.users, s.validator, payload)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return dto.AuthResponse{}, ErrUserExists
		}
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed up")
	return s.issue(ctx, TokenSubject{ID: user.ID, Email: user.Email}, dto.NewUserResponse(user))
}

func (s *authService) SignIn(ctx context.Context, payload dto.SignInRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}
	if !passwordMatches(user.Password, payload.Password) {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(ctx, TokenSubject{ID: user.ID, Email: user.Email}, dto.NewUserResponse(user))
}

func (s *authService) SignInAdmin(ctx context.Context, payload dto.SignInRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	admin, err := s.admins.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}
	if !passwordMatches(admin.Password, payload.Password) {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(ctx, TokenSubject{ID: admin.ID, Email: admin.Email, IsAdmin: true}, dto.NewAdminResponse(admin))
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (dto.AccessTokenResponse, error) {
	subject, err := s.verifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return dto.AccessTokenResponse{}, err
	}

	access, err := s.tokens.AccessToken(subject)
	if err != nil {
		return dto.AccessTokenResponse{}, err
	}
	return dto.AccessTokenResponse{AccessToken: access}, nil
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	subject, err := s.verifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := s.sessions.Remove(ctx, subject.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", subject.ID).Msg("failed to remove session")
	}
	if err := s.users.DeleteRefreshTokens(ctx, subject.ID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", subject.ID).Msg("signed out")
	return nil
}

// LoggedInUsers resolves the tracked session identifiers to user or admin projections.
// Identifiers whose account no longer exists are skipped.
func (s *authService) LoggedInUsers(ctx context.Context) ([]interface{}, error) {
	ids, err := s.sessions.Members(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		if user, err := s.users.GetByID(ctx, id); err == nil {
			accounts = append(accounts, dto.NewUserResponse(user))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		admin, err := s.admins.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		accounts = append(accounts, dto.NewAdminResponse(admin))
	}
	return accounts, nil
}

func (s *authService) LoggedInUsersCount(ctx context.Context) (int64, error) {
	return s.sessions.Count(ctx)
}

func (s *authService) issue(ctx context.Context, subject TokenSubject, account interface{}) (dto.AuthResponse, error) {
	access, err := s.tokens.AccessToken(subject)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	refresh, err := s.tokens.RefreshToken(subject)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	if err := s.users.SaveRefreshToken(ctx, &models.RefreshToken{Token: refresh, UserID: subject.ID}); err != nil {
		return dto.AuthResponse{}, err
	}
	if err := s.sessions.Add(ctx, subject.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", subject.ID).Msg("failed to record session")
	}

	return dto.AuthResponse{User: account, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) verifyRefreshToken(ctx context.Context, refreshToken string) (TokenSubject, error) {
	subject, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenSubject{}, err
	}

	stored, err := s.users.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return TokenSubject{}, translateNotFound(err, ErrInvalidRefreshToken)
	}
	if stored.UserID != subject.ID {
		return TokenSubject{}, ErrInvalidRefreshToken
	}
	return subject, nil
}
