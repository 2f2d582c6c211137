package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/learnhub-api/internal/dto"
	"github.com/noah-isme/learnhub-api/internal/models"
)

// RetryDelay is the fixed cooldown between two graded attempts on the same enrollment.
const RetryDelay = 60_000 * time.Millisecond

// GradeResult is the outcome of scoring a complete submission.
type GradeResult struct {
	CorrectAnswers  int
	TotalQuestions  int
	MinimumRequired int
	Passed          bool
	Results         map[string]bool
}

// NormalizeAnswer lowercases, trims and collapses internal whitespace runs to a single space.
func NormalizeAnswer(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

// MinimumRequired returns how many correct answers pass a set of total questions.
// One question yields zero, so a single-question assignment always passes.
func MinimumRequired(total int) int {
	return total / 2
}

// Grade scores answers against the assignment questions. The submission must answer
// every question exactly once and reference only known question identifiers.
func Grade(questions []models.Question, answers []dto.SubmittedAnswer) (GradeResult, error) {
	if len(questions) == 0 {
		return GradeResult{}, ErrNoQuestions
	}
	if len(answers) != len(questions) {
		return GradeResult{}, ErrIncompleteSubmission
	}

	canonical := make(map[string]string, len(questions))
	for _, question := range questions {
		canonical[question.ID] = NormalizeAnswer(question.Answer)
	}

	result := GradeResult{
		TotalQuestions:  len(questions),
		MinimumRequired: MinimumRequired(len(questions)),
		Results:         make(map[string]bool, len(answers)),
	}

	for _, answer := range answers {
		expected, ok := canonical[answer.QuestionID]
		if !ok {
			return GradeResult{}, fmt.Errorf("%w: %s", ErrInvalidQuestionID, answer.QuestionID)
		}
		correct := NormalizeAnswer(answer.Answer) == expected
		result.Results[answer.QuestionID] = correct
		if correct {
			result.CorrectAnswers++
		}
	}

	result.Passed = result.CorrectAnswers >= result.MinimumRequired
	return result, nil
}
