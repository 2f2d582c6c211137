package dto

import (
	"time"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// SubmittedAnswer is one element of an assignment submission.
type SubmittedAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// SubmitAssignmentResult reports the outcome of a graded attempt.
type SubmitAssignmentResult struct {
	Passed          bool `json:"passed"`
	CorrectAnswers  int  `json:"correctAnswers"`
	TotalQuestions  int  `json:"totalQuestions"`
	MinimumRequired int  `json:"minimumRequired"`
}

// EnrollmentState summarises a learner's progress and retry window for a course.
type EnrollmentState struct {
	UserID              string     `json:"userId"`
	CourseID            string     `json:"courseId"`
	EnrollmentDate      time.Time  `json:"enrollmentDate"`
	LastAttemptDate     *time.Time `json:"lastAttemptDate"`
	IsPassed            bool       `json:"isPassed"`
	IsCompleted         bool       `json:"isCompleted"`
	NextPossibleAttempt *time.Time `json:"nextPossibleAttempt"`
}

// EnrollmentResponse is the serialized enrollment with user and course summaries.
type EnrollmentResponse struct {
	ID              string         `json:"id"`
	User            UserResponse   `json:"user"`
	Course          CourseResponse `json:"course"`
	EnrollmentDate  time.Time      `json:"enrollmentDate"`
	Completed       bool           `json:"completed"`
	TestPassed      bool           `json:"testPassed"`
	DateLastAttempt *time.Time     `json:"dateLastAttempt"`
}

// NewEnrollmentResponse converts a model with preloaded associations into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:              model.ID,
		User:            NewUserResponse(model.User),
		Course:          NewCourseResponse(model.Course),
		EnrollmentDate:  model.EnrollmentDate,
		Completed:       model.Completed,
		TestPassed:      model.TestPassed,
		DateLastAttempt: model.DateLastAttempt,
	}
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}
	return responses
}

// AttemptResponse serializes a recorded grading attempt.
type AttemptResponse struct {
	ID              string          `json:"id"`
	CorrectAnswers  int             `json:"correctAnswers"`
	TotalQuestions  int             `json:"totalQuestions"`
	MinimumRequired int             `json:"minimumRequired"`
	Passed          bool            `json:"passed"`
	Results         map[string]bool `json:"results"`
	AttemptedAt     time.Time       `json:"attemptedAt"`
}

// NewAttemptResponse converts a model into a DTO.
func NewAttemptResponse(model models.AssignmentAttempt) AttemptResponse {
	results := make(map[string]bool, len(model.Results))
	for questionID, value := range model.Results {
		if correct, ok := value.(bool); ok {
			results[questionID] = correct
		}
	}
	return AttemptResponse{
		ID:              model.ID,
		CorrectAnswers:  model.CorrectAnswers,
		TotalQuestions:  model.TotalQuestions,
		MinimumRequired: model.MinimumRequired,
		Passed:          model.Passed,
		Results:         results,
		AttemptedAt:     model.AttemptedAt,
	}
}

// NewAttemptResponseSlice converts a slice of models into DTOs.
func NewAttemptResponseSlice(attempts []models.AssignmentAttempt) []AttemptResponse {
	responses := make([]AttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		responses = append(responses, NewAttemptResponse(attempt))
	}
	return responses
}
