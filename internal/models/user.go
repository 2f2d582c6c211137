package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a learner that can enroll in courses.
type User struct {
	ID                      string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name                    string     `gorm:"size:100;not null" json:"name"`
	Email                   string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password                string     `gorm:"size:255;not null" json:"-"`
	Age                     int        `json:"age"`
	NumberOfEnrolledCourses int        `gorm:"not null;default:0" json:"numberOfEnrolledCourses"`
	ResetToken              *string    `gorm:"size:128;index" json:"-"`
	ResetTokenExpires       *time.Time `json:"-"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// HasValidResetToken reports whether token matches the stored reset token and is still valid at reference.
func (u User) HasValidResetToken(token string, reference time.Time) bool {
	if u.ResetToken == nil || u.ResetTokenExpires == nil || token == "" {
		return false
	}
	return *u.ResetToken == token && reference.Before(*u.ResetTokenExpires)
}

// Admin represents a privileged operator account.
type Admin struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"size:255;not null" json:"-"`
	Age           int       `json:"age"`
	HasWeb3Access bool      `json:"hasWeb3Access"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (a *Admin) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// RefreshToken persists issued refresh tokens so they can be revoked on sign-out.
type RefreshToken struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Token     string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (r *RefreshToken) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
