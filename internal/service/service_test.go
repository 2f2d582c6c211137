package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
	"github.com/noah-isme/learnhub-api/internal/utils"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return utils.NewValidator()
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type testClock struct {
	mu      sync.Mutex
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type sentMail struct {
	To      string
	Subject string
	Plain   string
	HTML    string
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, plainBody, htmlBody string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Plain: plainBody, HTML: htmlBody})
	return m.err
}

type repositories struct {
	users       repository.UserRepository
	admins      repository.AdminRepository
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	enrollments repository.EnrollmentRepository
}

func newRepositories(db *gorm.DB) repositories {
	return repositories{
		users:       repository.NewUserRepository(db),
		admins:      repository.NewAdminRepository(db),
		courses:     repository.NewCourseRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Learner", Email: email, Password: "hash", Age: 21}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, title string) models.Course {
	t.Helper()
	course := models.Course{Title: title, Description: "About " + title, IsActive: true}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func seedAssignment(t *testing.T, db *gorm.DB, courseID string, answers ...string) models.Assignment {
	t.Helper()
	assignment := models.Assignment{CourseID: courseID}
	for i, answer := range answers {
		assignment.Questions = append(assignment.Questions, models.Question{
			QuestionText: fmt.Sprintf("Question %d", i+1),
			Answer:       answer,
			Position:     i,
		})
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func isValidation(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
