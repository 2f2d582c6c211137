package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

// UserService exposes learner account management.
type UserService interface {
	Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error)
	List(ctx context.Context, userType dto.UserType) ([]interface{}, error)
	Get(ctx context.Context, id string) (interface{}, error)
	Update(ctx context.Context, id string, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users     repository.UserRepository
	admins    repository.AdminRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService builds the user service.
func NewUserService(users repository.UserRepository, admins repository.AdminRepository, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		admins:    admins,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	user, err := createUser(ctx, s.users, s.validator, payload)
	if err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user created")
	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, userType dto.UserType) ([]interface{}, error) {
	var includeUsers, includeAdmins bool
	switch dto.UserType(strings.ToLower(strings.TrimSpace(string(userType)))) {
	case dto.UserTypeAll:
		includeUsers, includeAdmins = true, true
	case dto.UserTypeUsers:
		includeUsers = true
	case dto.UserTypeAdmins:
		includeAdmins = true
	default:
		return nil, ErrInvalidUserType
	}

	results := make([]interface{}, 0)
	if includeUsers {
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			results = append(results, dto.NewUserResponse(user))
		}
	}
	if includeAdmins {
		admins, err := s.admins.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, admin := range admins {
			results = append(results, dto.NewAdminResponse(admin))
		}
	}
	return results, nil
}

// Get returns the user with id, falling back to an admin sharing the identifier.
func (s *userService) Get(ctx context.Context, id string) (interface{}, error) {
	user, err := s.users.GetByID(ctx, id)
	if err == nil {
		return dto.NewUserResponse(user), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, ErrUserNotFound)
	}
	return dto.NewAdminResponse(admin), nil
}

func (s *userService) Update(ctx context.Context, id string, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, translateNotFound(err, ErrUserNotFound)
	}

	if payload.Name != nil {
		user.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*payload.Email))
	}
	if payload.Age != nil {
		user.Age = *payload.Age
	}

	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user updated")
	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return translateNotFound(err, ErrUserNotFound)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// createUser validates, hashes and stores a learner account. A taken email yields ErrEmailTaken.
func createUser(ctx context.Context, users repository.UserRepository, validate *validator.Validate, payload dto.UserCreateRequest) (models.User, error) {
	if err := validate.Struct(payload); err != nil {
		return models.User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := hashPassword(payload.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:     strings.TrimSpace(payload.Name),
		Email:    email,
		Password: hash,
		Age:      payload.Age,
	}
	if err := users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
