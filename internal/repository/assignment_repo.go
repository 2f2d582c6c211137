package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// AssignmentRepository defines persistence operations for course assignments and their questions.
type AssignmentRepository interface {
	GetByCourseID(ctx context.Context, courseID string) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	ReplaceQuestions(ctx context.Context, assignmentID string, questions []models.Question) error
	Delete(ctx context.Context, id string) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetByCourseID(ctx context.Context, courseID string) (models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&assignment, "course_id = ?", courseID).Error
	if err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

// Create stores the assignment and its questions, numbering question positions in slice order.
func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	for i := range assignment.Questions {
		assignment.Questions[i].Position = i
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) ReplaceQuestions(ctx context.Context, assignmentID string, questions []models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", assignmentID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].ID = ""
			questions[i].AssignmentID = assignmentID
			questions[i].Position = i
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		return tx.Model(&models.Assignment{}).Where("id = ?", assignmentID).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Assignment{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func deleteAssignmentsForCourse(tx *gorm.DB, courseID string) error {
	subQuery := tx.Model(&models.Assignment{}).Select("id").Where("course_id = ?", courseID)
	if err := tx.Where("assignment_id IN (?)", subQuery).Delete(&models.Question{}).Error; err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&models.Assignment{}).Error
}
