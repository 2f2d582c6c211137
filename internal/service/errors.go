package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEnrollmentNotFound indicates no enrollment exists for the (course, user) pair.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrCourseNotFound indicates the requested course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrAdminNotFound indicates the requested admin does not exist.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrAssignmentNotFound indicates the course has no assignment.
	ErrAssignmentNotFound = errors.New("no assignment found for this course")

	// ErrAlreadyEnrolled rejects a second enrollment of the same user in a course.
	ErrAlreadyEnrolled = errors.New("user already enrolled in this course")
	// ErrTestAlreadyPassed rejects submissions once the assignment was passed.
	ErrTestAlreadyPassed = errors.New("test already passed")
	// ErrRetryCooldown rejects submissions made before the retry window reopens.
	// Returned errors are *CooldownError values carrying the unlock time.
	ErrRetryCooldown = errors.New("retry cooldown active")
	// ErrAssignmentExists rejects creating a second assignment for a course.
	ErrAssignmentExists = errors.New("assignment already exists for this course")

	// ErrNoQuestions indicates the assignment carries no questions to grade.
	ErrNoQuestions = errors.New("no questions found in the assignment")
	// ErrIncompleteSubmission rejects submissions that do not answer every question.
	ErrIncompleteSubmission = errors.New("must answer all questions")
	// ErrInvalidQuestionID rejects submissions referencing an unknown question.
	ErrInvalidQuestionID = errors.New("invalid question ID")
	// ErrInvalidUserType rejects unsupported user listing types.
	ErrInvalidUserType = errors.New("invalid user type")
	// ErrAdminEmailTaken rejects creating an admin with an email already in use.
	ErrAdminEmailTaken = errors.New("admin with this email already exists")
	// ErrInvalidRefreshToken rejects unknown or malformed refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrInvalidResetToken rejects unknown or expired password reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrUserExists rejects sign-up with an email that is already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrEmailTaken rejects registering a user with an email already in use.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrCourseTitleTaken rejects creating a course whose title is already used.
	ErrCourseTitleTaken = errors.New("course with this title already exists")

	// ErrInvalidCredentials rejects sign-in attempts with a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidAdminSecret rejects privileged reads with a wrong admin secret.
	ErrInvalidAdminSecret = errors.New("invalid admin secret")
)

// CooldownError reports that a submission arrived before the retry window reopened.
type CooldownError struct {
	Until time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait until %s before attempting again", e.Until.UTC().Format(time.RFC3339))
}

// Is lets errors.Is match CooldownError against ErrRetryCooldown.
func (e *CooldownError) Is(target error) bool {
	return target == ErrRetryCooldown
}
