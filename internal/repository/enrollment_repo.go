package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// EnrollmentRepository defines persistence operations for enrollments and their grading history.
type EnrollmentRepository interface {
	Find(ctx context.Context, userID, courseID string) (models.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error)
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	Unenroll(ctx context.Context, userID, courseID string) error
	RecordAttempt(ctx context.Context, enrollment models.Enrollment, attempt *models.AssignmentAttempt) error
	ListAttempts(ctx context.Context, enrollmentID string) ([]models.AssignmentAttempt, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates a GORM-backed enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Find(ctx context.Context, userID, courseID string) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Course").
		Where("user_id = ?", userID).
		Order("enrollment_date ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Course").
		Where("course_id = ?", courseID).
		Order("enrollment_date ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Enroll inserts the enrollment and increments both denormalised counters atomically.
// A duplicate (user, course) pair surfaces as gorm.ErrDuplicatedKey.
func (r *enrollmentRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(enrollment).Error; err != nil {
			return err
		}
		if err := adjustCounter(tx, &models.User{}, "number_of_enrolled_courses", enrollment.UserID, 1); err != nil {
			return err
		}
		return adjustCounter(tx, &models.Course{}, "number_of_students", enrollment.CourseID, 1)
	})
}

// Unenroll deletes the enrollment with its attempt history and decrements both counters atomically.
func (r *enrollmentRepository) Unenroll(ctx context.Context, userID, courseID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
			return err
		}
		if err := tx.Where("enrollment_id = ?", enrollment.ID).Delete(&models.AssignmentAttempt{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Enrollment{}, "id = ?", enrollment.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := adjustCounter(tx, &models.User{}, "number_of_enrolled_courses", userID, -1); err != nil {
			return err
		}
		return adjustCounter(tx, &models.Course{}, "number_of_students", courseID, -1)
	})
}

// deleteEnrollments removes every enrollment whose column matches value, attempts first.
func deleteEnrollments(tx *gorm.DB, column, value string) error {
	matching := tx.Model(&models.Enrollment{}).Select("id").Where(column+" = ?", value)
	if err := tx.Where("enrollment_id IN (?)", matching).Delete(&models.AssignmentAttempt{}).Error; err != nil {
		return err
	}
	return tx.Where(column+" = ?", value).Delete(&models.Enrollment{}).Error
}

// RecordAttempt persists a graded attempt. The enrollment row is only updated when it
// still carries the attempt count and pass state the caller graded against; otherwise
// ErrStaleEnrollment is returned and nothing is written.
func (r *enrollmentRepository) RecordAttempt(ctx context.Context, enrollment models.Enrollment, attempt *models.AssignmentAttempt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"date_last_attempt": attempt.AttemptedAt,
			"attempt_count":     gorm.Expr("attempt_count + 1"),
		}
		if attempt.Passed {
			updates["test_passed"] = true
			updates["completed"] = true
		}

		result := tx.Model(&models.Enrollment{}).
			Where("id = ? AND attempt_count = ? AND test_passed = ?", enrollment.ID, enrollment.AttemptCount, false).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleEnrollment
		}

		attempt.EnrollmentID = enrollment.ID
		return tx.Create(attempt).Error
	})
}

func (r *enrollmentRepository) ListAttempts(ctx context.Context, enrollmentID string) ([]models.AssignmentAttempt, error) {
	var attempts []models.AssignmentAttempt
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("attempted_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
