package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

// AssignmentService manages the graded question set attached to each course.
type AssignmentService interface {
	Create(ctx context.Context, courseID string, payload dto.AssignmentCreateRequest) (dto.AssignmentWithAnswersResponse, error)
	Get(ctx context.Context, courseID string) (dto.AssignmentResponse, error)
	GetWithAnswers(ctx context.Context, courseID, adminSecret string) (dto.AssignmentWithAnswersResponse, error)
	Update(ctx context.Context, courseID string, payload dto.AssignmentUpdateRequest) (dto.AssignmentWithAnswersResponse, error)
	Delete(ctx context.Context, courseID string) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	policy      *bluemonday.Policy
	adminSecret string
	logger      zerolog.Logger
}

// NewAssignmentService builds the assignment service. adminSecret unlocks the answer projection.
func NewAssignmentService(assignments repository.AssignmentRepository, courses repository.CourseRepository, validate *validator.Validate, adminSecret string, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		courses:     courses,
		validator:   validate,
		policy:      bluemonday.StrictPolicy(),
		adminSecret: adminSecret,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, courseID string, payload dto.AssignmentCreateRequest) (dto.AssignmentWithAnswersResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentWithAnswersResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.AssignmentWithAnswersResponse{}, translateNotFound(err, ErrCourseNotFound)
	}

	if _, err := s.assignments.GetByCourseID(ctx, courseID); err == nil {
		return dto.AssignmentWithAnswersResponse{}, ErrAssignmentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AssignmentWithAnswersResponse{}, err
	}

	assignment := models.Assignment{
		CourseID:  courseID,
		Questions: s.buildQuestions(payload.Questions),
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AssignmentWithAnswersResponse{}, ErrAssignmentExists
		}
		return dto.AssignmentWithAnswersResponse{}, err
	}

	s.logger.Info().Str("course_id", courseID).Int("questions", len(assignment.Questions)).Msg("assignment created")
	return dto.NewAssignmentWithAnswersResponse(assignment), nil
}

func (s *assignmentService) Get(ctx context.Context, courseID string) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByCourseID(ctx, courseID)
	if err != nil {
		return dto.AssignmentResponse{}, translateNotFound(err, ErrAssignmentNotFound)
	}
	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) GetWithAnswers(ctx context.Context, courseID, adminSecret string) (dto.AssignmentWithAnswersResponse, error) {
	if !secretMatches(adminSecret, s.adminSecret) {
		return dto.AssignmentWithAnswersResponse{}, ErrInvalidAdminSecret
	}

	assignment, err := s.assignments.GetByCourseID(ctx, courseID)
	if err != nil {
		return dto.AssignmentWithAnswersResponse{}, translateNotFound(err, ErrAssignmentNotFound)
	}
	return dto.NewAssignmentWithAnswersResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, courseID string, payload dto.AssignmentUpdateRequest) (dto.AssignmentWithAnswersResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentWithAnswersResponse{}, err
	}

	assignment, err := s.assignments.GetByCourseID(ctx, courseID)
	if err != nil {
		return dto.AssignmentWithAnswersResponse{}, translateNotFound(err, ErrAssignmentNotFound)
	}

	if payload.Questions != nil {
		questions := s.buildQuestions(*payload.Questions)
		if err := s.assignments.ReplaceQuestions(ctx, assignment.ID, questions); err != nil {
			return dto.AssignmentWithAnswersResponse{}, err
		}
		assignment, err = s.assignments.GetByCourseID(ctx, courseID)
		if err != nil {
			return dto.AssignmentWithAnswersResponse{}, translateNotFound(err, ErrAssignmentNotFound)
		}
		s.logger.Info().Str("course_id", courseID).Int("questions", len(assignment.Questions)).Msg("assignment questions replaced")
	}

	return dto.NewAssignmentWithAnswersResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, courseID string) error {
	assignment, err := s.assignments.GetByCourseID(ctx, courseID)
	if err != nil {
		return translateNotFound(err, ErrAssignmentNotFound)
	}
	if err := s.assignments.Delete(ctx, assignment.ID); err != nil {
		return translateNotFound(err, ErrAssignmentNotFound)
	}

	s.logger.Info().Str("course_id", courseID).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) buildQuestions(requests []dto.QuestionRequest) []models.Question {
	questions := make([]models.Question, 0, len(requests))
	for _, request := range requests {
		questions = append(questions, models.Question{
			QuestionText: strings.TrimSpace(s.policy.Sanitize(strings.TrimSpace(request.QuestionText))),
			Answer:       strings.TrimSpace(request.Answer),
		})
	}
	return questions
}

func secretMatches(provided, expected string) bool {
	if provided == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
