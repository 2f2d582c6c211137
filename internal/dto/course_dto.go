package dto

import (
	"time"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required"`
	IsActive    *bool  `json:"isActive"`
}

// CourseUpdateRequest describes a partial course update.
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"isActive"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	Search   string
	IsActive *bool
}

// CourseResponse is the serialized representation returned to API clients.
type CourseResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	IsActive         bool      `json:"isActive"`
	NumberOfStudents int       `json:"numberOfStudents"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:               model.ID,
		Title:            model.Title,
		Description:      model.Description,
		IsActive:         model.IsActive,
		NumberOfStudents: model.NumberOfStudents,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}
