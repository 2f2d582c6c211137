package models

import (
	"time"

	"gorm.io/gorm"
)

// Course is a unit of learning students can enroll in.
type Course struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title            string    `gorm:"size:100;uniqueIndex;not null" json:"title"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	IsActive         bool      `gorm:"not null" json:"isActive"`
	NumberOfStudents int       `gorm:"not null;default:0" json:"numberOfStudents"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (c *Course) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
