package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment is the graded question set attached to a course. A course owns at most one.
type Assignment struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	CourseID  string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"courseId"`
	Course    Course     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Questions []Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (a *Assignment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// Question holds a prompt and its canonical answer.
type Question struct {
	ID           string `gorm:"type:varchar(36);primaryKey" json:"id"`
	AssignmentID string `gorm:"type:varchar(36);not null;index" json:"assignmentId"`
	QuestionText string `gorm:"size:255;not null" json:"questionText"`
	Answer       string `gorm:"size:255;not null" json:"answer"`
	Position     int    `gorm:"not null;default:0" json:"position"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (q *Question) BeforeCreate(*gorm.DB) error {
	ensureID(&q.ID)
	return nil
}
