package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

// AdminService manages administrator accounts.
type AdminService interface {
	Create(ctx context.Context, payload dto.AdminCreateRequest) (dto.AdminResponse, error)
	List(ctx context.Context) ([]dto.AdminResponse, error)
	Get(ctx context.Context, id string) (dto.AdminResponse, error)
	Delete(ctx context.Context, id string) error
}

type adminService struct {
	repo      repository.AdminRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminService builds the admin service.
func NewAdminService(repo repository.AdminRepository, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) Create(ctx context.Context, payload dto.AdminCreateRequest) (dto.AdminResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return dto.AdminResponse{}, ErrAdminEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AdminResponse{}, err
	}

	hash, err := hashPassword(payload.Password)
	if err != nil {
		return dto.AdminResponse{}, err
	}

	admin := models.Admin{
		Name:          strings.TrimSpace(payload.Name),
		Email:         email,
		Password:      hash,
		Age:           payload.Age,
		HasWeb3Access: payload.HasWeb3Access,
	}
	if err := s.repo.Create(ctx, &admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AdminResponse{}, ErrAdminEmailTaken
		}
		return dto.AdminResponse{}, err
	}

	s.logger.Info().Str("admin_id", admin.ID).Msg("admin created")
	return dto.NewAdminResponse(admin), nil
}

func (s *adminService) List(ctx context.Context) ([]dto.AdminResponse, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewAdminResponseSlice(admins), nil
}

func (s *adminService) Get(ctx context.Context, id string) (dto.AdminResponse, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.AdminResponse{}, translateNotFound(err, ErrAdminNotFound)
	}
	return dto.NewAdminResponse(admin), nil
}

func (s *adminService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateNotFound(err, ErrAdminNotFound)
	}
	s.logger.Info().Str("admin_id", id).Msg("admin deleted")
	return nil
}
