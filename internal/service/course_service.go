package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

// CourseService exposes course catalogue use cases.
type CourseService interface {
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	List(ctx context.Context, filter dto.CourseFilter) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id string) (dto.CourseResponse, error)
	Update(ctx context.Context, id string, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo      repository.CourseRepository
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCourseService builds the course service.
func NewCourseService(repo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		validator: validate,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
		now:       time.Now,
	}
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:       s.sanitize(payload.Title),
		Description: s.sanitize(payload.Description),
		IsActive:    true,
	}
	if payload.IsActive != nil {
		course.IsActive = *payload.IsActive
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CourseResponse{}, ErrCourseTitleTaken
		}
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", course.ID).Msg("course created")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context, filter dto.CourseFilter) ([]dto.CourseResponse, error) {
	courses, err := s.repo.List(ctx, repository.CourseFilter{Search: filter.Search, IsActive: filter.IsActive})
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id string) (dto.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, translateNotFound(err, ErrCourseNotFound)
	}
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id string, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, translateNotFound(err, ErrCourseNotFound)
	}

	if payload.Title != nil {
		course.Title = s.sanitize(*payload.Title)
	}
	if payload.Description != nil {
		course.Description = s.sanitize(*payload.Description)
	}
	if payload.IsActive != nil {
		course.IsActive = *payload.IsActive
	}

	if err := s.repo.Update(ctx, &course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CourseResponse{}, ErrCourseTitleTaken
		}
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", course.ID).Msg("course updated")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateNotFound(err, ErrCourseNotFound)
	}
	s.logger.Info().Str("course_id", id).Msg("course deleted")
	return nil
}

func (s *courseService) sanitize(value string) string {
	return strings.TrimSpace(s.policy.Sanitize(strings.TrimSpace(value)))
}
