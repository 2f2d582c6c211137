package dto

import "github.com/noah-isme/learnhub-api/internal/models"

// QuestionRequest describes a single question when creating or replacing a question set.
type QuestionRequest struct {
	QuestionText string `json:"questionText" validate:"required,min=1,max=255"`
	Answer       string `json:"answer" validate:"required,min=1,max=32"`
}

// AssignmentCreateRequest describes the payload for creating a course assignment.
type AssignmentCreateRequest struct {
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// AssignmentUpdateRequest replaces the question set when Questions is provided.
type AssignmentUpdateRequest struct {
	Questions *[]QuestionRequest `json:"questions" validate:"omitempty,min=1,dive"`
}

// QuestionResponse exposes a question without its canonical answer.
type QuestionResponse struct {
	ID           string `json:"id"`
	QuestionText string `json:"questionText"`
}

// QuestionWithAnswerResponse exposes a question together with its canonical answer.
type QuestionWithAnswerResponse struct {
	ID           string `json:"id"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
}

// AssignmentResponse is the learner-facing projection of an assignment.
type AssignmentResponse struct {
	ID        string             `json:"id"`
	CourseID  string             `json:"courseId"`
	Questions []QuestionResponse `json:"questions"`
}

// AssignmentWithAnswersResponse is the privileged projection including answers.
type AssignmentWithAnswersResponse struct {
	ID        string                       `json:"id"`
	CourseID  string                       `json:"courseId"`
	Questions []QuestionWithAnswerResponse `json:"questions"`
}

// NewAssignmentResponse converts a model into the answer-free DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, QuestionResponse{ID: question.ID, QuestionText: question.QuestionText})
	}
	return AssignmentResponse{ID: model.ID, CourseID: model.CourseID, Questions: questions}
}

// NewAssignmentWithAnswersResponse converts a model into the DTO carrying answers.
func NewAssignmentWithAnswersResponse(model models.Assignment) AssignmentWithAnswersResponse {
	questions := make([]QuestionWithAnswerResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, QuestionWithAnswerResponse{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			Answer:       question.Answer,
		})
	}
	return AssignmentWithAnswersResponse{ID: model.ID, CourseID: model.CourseID, Questions: questions}
}
