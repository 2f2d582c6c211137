package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/observability"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

// EnrollmentService exposes enrollment, grading and retry-window use cases.
type EnrollmentService interface {
	Enroll(ctx context.Context, courseID, userID string) (dto.CourseResponse, error)
	Unenroll(ctx context.Context, courseID, userID string) error
	ListByUser(ctx context.Context, userID string) ([]dto.EnrollmentResponse, error)
	ListByCourse(ctx context.Context, courseID string) ([]dto.EnrollmentResponse, error)
	State(ctx context.Context, courseID, userID string) (dto.EnrollmentState, error)
	SubmitAnswers(ctx context.Context, courseID, userID string, answers []dto.SubmittedAnswer) (dto.SubmitAssignmentResult, error)
	Attempts(ctx context.Context, courseID, userID string) ([]dto.AttemptResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	events      EventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEnrollmentService builds the enrollment service.
func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	assignments repository.AssignmentRepository,
	events EventPublisher,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		assignments: assignments,
		events:      events,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/learnhub-api/internal/service/enrollment"),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, courseID, userID string) (dto.CourseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "enrollment.enroll")
	span.SetAttributes(attribute.String("enrollment.course_id", courseID), attribute.String("enrollment.user_id", userID))
	defer span.End()

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return dto.CourseResponse{}, failSpan(span, translateNotFound(err, ErrCourseNotFound), "course_lookup_failed")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return dto.CourseResponse{}, failSpan(span, translateNotFound(err, ErrUserNotFound), "user_lookup_failed")
	}

	if _, err := s.enrollments.Find(ctx, userID, courseID); err == nil {
		return dto.CourseResponse{}, failSpan(span, ErrAlreadyEnrolled, "already_enrolled")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CourseResponse{}, failSpan(span, err, "enrollment_lookup_failed")
	}

	enrolledAt := s.now().UTC()
	enrollment := models.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: enrolledAt,
	}
	if err := s.enrollments.Enroll(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CourseResponse{}, failSpan(span, ErrAlreadyEnrolled, "already_enrolled")
		}
		return dto.CourseResponse{}, failSpan(span, err, "enrollment_create_failed")
	}

	observability.Enrollments().WithLabelValues("enroll").Inc()
	s.logger.Info().Str("user_id", userID).Str("course_id", courseID).Msg("user enrolled")
	s.publish(ctx, Event{Type: EventEnrollmentCreated, UserID: userID, CourseID: courseID, OccurredAt: enrolledAt})

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return dto.CourseResponse{}, failSpan(span, translateNotFound(err, ErrCourseNotFound), "course_reload_failed")
	}
	return dto.NewCourseResponse(course), nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, courseID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "enrollment.unenroll")
	span.SetAttributes(attribute.String("enrollment.course_id", courseID), attribute.String("enrollment.user_id", userID))
	defer span.End()

	if err := s.enrollments.Unenroll(ctx, userID, courseID); err != nil {
		return failSpan(span, translateNotFound(err, ErrEnrollmentNotFound), "enrollment_delete_failed")
	}

	observability.Enrollments().WithLabelValues("unenroll").Inc()
	s.logger.Info().Str("user_id", userID).Str("course_id", courseID).Msg("user unenrolled")
	s.publish(ctx, Event{Type: EventEnrollmentDeleted, UserID: userID, CourseID: courseID, OccurredAt: s.now().UTC()})
	return nil
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID string) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) ListByCourse(ctx context.Context, courseID string) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) State(ctx context.Context, courseID, userID string) (dto.EnrollmentState, error) {
	enrollment, err := s.enrollments.Find(ctx, userID, courseID)
	if err != nil {
		return dto.EnrollmentState{}, translateNotFound(err, ErrEnrollmentNotFound)
	}

	state := dto.EnrollmentState{
		UserID:          enrollment.UserID,
		CourseID:        enrollment.CourseID,
		EnrollmentDate:  enrollment.EnrollmentDate,
		LastAttemptDate: enrollment.DateLastAttempt,
		IsPassed:        enrollment.TestPassed,
		IsCompleted:     enrollment.Completed,
	}
	if !enrollment.TestPassed {
		state.NextPossibleAttempt = enrollment.NextAttemptAt(RetryDelay)
	}
	return state, nil
}

// SubmitAnswers grades a submission. Preconditions are checked in a fixed order:
// enrollment exists, not yet passed, cooldown elapsed, assignment has questions,
// every question answered, every question id known.
func (s *enrollmentService) SubmitAnswers(ctx context.Context, courseID, userID string, answers []dto.SubmittedAnswer) (dto.SubmitAssignmentResult, error) {
	ctx, span := s.tracer.Start(ctx, "enrollment.submit")
	span.SetAttributes(
		attribute.String("enrollment.course_id", courseID),
		attribute.String("enrollment.user_id", userID),
		attribute.Int("enrollment.answers", len(answers)),
	)
	defer span.End()

	enrollment, err := s.enrollments.Find(ctx, userID, courseID)
	if err != nil {
		return dto.SubmitAssignmentResult{}, failSpan(span, translateNotFound(err, ErrEnrollmentNotFound), "enrollment_lookup_failed")
	}
	if enrollment.TestPassed {
		return dto.SubmitAssignmentResult{}, failSpan(span, ErrTestAlreadyPassed, "already_passed")
	}

	now := s.now().UTC()
	if next := enrollment.NextAttemptAt(RetryDelay); next != nil && now.Before(*next) {
		return dto.SubmitAssignmentResult{}, failSpan(span, &CooldownError{Until: *next}, "cooldown_active")
	}

	assignment, err := s.assignments.GetByCourseID(ctx, courseID)
	if err != nil {
		return dto.SubmitAssignmentResult{}, failSpan(span, translateNotFound(err, ErrAssignmentNotFound), "assignment_lookup_failed")
	}

	graded, err := Grade(assignment.Questions, answers)
	if err != nil {
		return dto.SubmitAssignmentResult{}, failSpan(span, err, "submission_rejected")
	}

	results := make(map[string]interface{}, len(graded.Results))
	for questionID, correct := range graded.Results {
		results[questionID] = correct
	}
	attempt := models.AssignmentAttempt{
		CorrectAnswers:  graded.CorrectAnswers,
		TotalQuestions:  graded.TotalQuestions,
		MinimumRequired: graded.MinimumRequired,
		Passed:          graded.Passed,
		Results:         results,
		AttemptedAt:     now,
	}
	if err := s.enrollments.RecordAttempt(ctx, enrollment, &attempt); err != nil {
		if errors.Is(err, repository.ErrStaleEnrollment) {
			return dto.SubmitAssignmentResult{}, failSpan(span, s.concurrentAttemptError(ctx, courseID, userID, now), "concurrent_attempt")
		}
		return dto.SubmitAssignmentResult{}, failSpan(span, err, "attempt_persist_failed")
	}

	outcome := "failed"
	if graded.Passed {
		outcome = "passed"
	}
	observability.AssignmentAttempts().WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.Bool("enrollment.passed", graded.Passed), attribute.Int("enrollment.correct", graded.CorrectAnswers))

	s.logger.Info().
		Str("user_id", userID).
		Str("course_id", courseID).
		Int("correct", graded.CorrectAnswers).
		Int("total", graded.TotalQuestions).
		Bool("passed", graded.Passed).
		Msg("assignment attempt graded")

	s.publish(ctx, Event{
		Type:       EventAssignmentGraded,
		UserID:     userID,
		CourseID:   courseID,
		OccurredAt: now,
		Data: map[string]interface{}{
			"passed":          graded.Passed,
			"correctAnswers":  graded.CorrectAnswers,
			"totalQuestions":  graded.TotalQuestions,
			"minimumRequired": graded.MinimumRequired,
		},
	})

	return dto.SubmitAssignmentResult{
		Passed:          graded.Passed,
		CorrectAnswers:  graded.CorrectAnswers,
		TotalQuestions:  graded.TotalQuestions,
		MinimumRequired: graded.MinimumRequired,
	}, nil
}

func (s *enrollmentService) Attempts(ctx context.Context, courseID, userID string) ([]dto.AttemptResponse, error) {
	enrollment, err := s.enrollments.Find(ctx, userID, courseID)
	if err != nil {
		return nil, translateNotFound(err, ErrEnrollmentNotFound)
	}

	attempts, err := s.enrollments.ListAttempts(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewAttemptResponseSlice(attempts), nil
}

// concurrentAttemptError explains why a conditional attempt write lost a race.
func (s *enrollmentService) concurrentAttemptError(ctx context.Context, courseID, userID string, now time.Time) error {
	current, err := s.enrollments.Find(ctx, userID, courseID)
	if err != nil {
		return translateNotFound(err, ErrEnrollmentNotFound)
	}
	if current.TestPassed {
		return ErrTestAlreadyPassed
	}
	if next := current.NextAttemptAt(RetryDelay); next != nil {
		return &CooldownError{Until: *next}
	}
	return &CooldownError{Until: now.Add(RetryDelay)}
}

func (s *enrollmentService) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish event")
	}
}

func failSpan(span trace.Span, err error, status string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}

func translateNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
