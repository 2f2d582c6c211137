package dto

import (
	"time"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// UserType selects which account kinds a user listing returns.
type UserType string

// Supported user listing types.
const (
	UserTypeAll    UserType = ""
	UserTypeUsers  UserType = "users"
	UserTypeAdmins UserType = "admins"
)

// UserCreateRequest describes the payload for registering a user.
type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
}

// UserUpdateRequest describes a partial user update.
type UserUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Age   *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
}

// UserResponse is the public projection of a user; it never exposes credentials.
type UserResponse struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Email                   string    `json:"email"`
	Age                     int       `json:"age"`
	NumberOfEnrolledCourses int       `json:"numberOfEnrolledCourses"`
	CreatedAt               time.Time `json:"createdAt"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:                      model.ID,
		Name:                    model.Name,
		Email:                   model.Email,
		Age:                     model.Age,
		NumberOfEnrolledCourses: model.NumberOfEnrolledCourses,
		CreatedAt:               model.CreatedAt,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}

// AdminCreateRequest describes the payload for creating an admin.
type AdminCreateRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=100"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Password      string `json:"password" validate:"required,min=6,max=72"`
	Age           int    `json:"age" validate:"gte=0,lte=150"`
	HasWeb3Access bool   `json:"hasWeb3Access"`
}

// AdminResponse is the public projection of an admin.
type AdminResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Age           int       `json:"age"`
	HasWeb3Access bool      `json:"hasWeb3Access"`
	IsAdmin       bool      `json:"isAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewAdminResponse converts a model into a DTO.
func NewAdminResponse(model models.Admin) AdminResponse {
	return AdminResponse{
		ID:            model.ID,
		Name:          model.Name,
		Email:         model.Email,
		Age:           model.Age,
		HasWeb3Access: model.HasWeb3Access,
		IsAdmin:       true,
		CreatedAt:     model.CreatedAt,
	}
}

// NewAdminResponseSlice converts a slice of models into DTOs.
func NewAdminResponseSlice(admins []models.Admin) []AdminResponse {
	responses := make([]AdminResponse, 0, len(admins))
	for _, admin := range admins {
		responses = append(responses, NewAdminResponse(admin))
	}
	return responses
}
