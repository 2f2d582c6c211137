package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment associates a user with a course and tracks assignment progress.
// A (user, course) pair is unique at the storage layer.
type Enrollment struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollments_user_course" json:"userId"`
	CourseID        string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollments_user_course;index" json:"courseId"`
	User            User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	Course          Course     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
	EnrollmentDate  time.Time  `gorm:"not null" json:"enrollmentDate"`
	Completed       bool       `gorm:"not null" json:"completed"`
	TestPassed      bool       `gorm:"not null" json:"testPassed"`
	DateLastAttempt *time.Time `json:"dateLastAttempt"`
	AttemptCount    int        `gorm:"not null;default:0" json:"attemptCount"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// NextAttemptAt returns when the next grading attempt unlocks, or nil when no attempt was made yet.
func (e Enrollment) NextAttemptAt(delay time.Duration) *time.Time {
	if e.DateLastAttempt == nil {
		return nil
	}
	next := e.DateLastAttempt.Add(delay)
	return &next
}

// AssignmentAttempt records the outcome of a single graded submission.
type AssignmentAttempt struct {
	ID              string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	EnrollmentID    string            `gorm:"type:varchar(36);not null;index" json:"enrollmentId"`
	CorrectAnswers  int               `gorm:"not null" json:"correctAnswers"`
	TotalQuestions  int               `gorm:"not null" json:"totalQuestions"`
	MinimumRequired int               `gorm:"not null" json:"minimumRequired"`
	Passed          bool              `gorm:"not null" json:"passed"`
	Results         datatypes.JSONMap `gorm:"type:json" json:"results"`
	AttemptedAt     time.Time         `gorm:"not null;index" json:"attemptedAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (a *AssignmentAttempt) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
