package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/learnhub-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

func seedUserAndCourse(t *testing.T, db *gorm.DB) (models.User, models.Course) {
	t.Helper()

	user := models.User{Name: "Ada", Email: "ada@example.com", Password: "hash", Age: 30}
	require.NoError(t, db.Create(&user).Error)
	course := models.Course{Title: "Go Basics", Description: "Intro", IsActive: true}
	require.NoError(t, db.Create(&course).Error)
	return user, course
}

func TestEnrollmentRepositoryEnrollUpdatesCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	user, course := seedUserAndCourse(t, db)
	ctx := context.Background()

	enrollment := models.Enrollment{UserID: user.ID, CourseID: course.ID, EnrollmentDate: time.Now().UTC()}
	require.NoError(t, repo.Enroll(ctx, &enrollment))
	require.NotEmpty(t, enrollment.ID)

	var storedUser models.User
	require.NoError(t, db.First(&storedUser, "id = ?", user.ID).Error)
	require.Equal(t, 1, storedUser.NumberOfEnrolledCourses)

	var storedCourse models.Course
	require.NoError(t, db.First(&storedCourse, "id = ?", course.ID).Error)
	require.Equal(t, 1, storedCourse.NumberOfStudents)

	duplicate := models.Enrollment{UserID: user.ID, CourseID: course.ID, EnrollmentDate: time.Now().UTC()}
	err := repo.Enroll(ctx, &duplicate)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.First(&storedCourse, "id = ?", course.ID).Error)
	require.Equal(t, 1, storedCourse.NumberOfStudents, "failed enroll must roll back counters")

	listed, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "Go Basics", listed[0].Course.Title)
	require.Equal(t, "Ada", listed[0].User.Name)
}

func TestEnrollmentRepositoryEnrollUnknownCourseRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	user, _ := seedUserAndCourse(t, db)

	enrollment := models.Enrollment{UserID: user.ID, CourseID: uuid.NewString(), EnrollmentDate: time.Now().UTC()}
	err := repo.Enroll(context.Background(), &enrollment)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&count).Error)
	require.Zero(t, count)

	var storedUser models.User
	require.NoError(t, db.First(&storedUser, "id = ?", user.ID).Error)
	require.Zero(t, storedUser.NumberOfEnrolledCourses)
}

func TestEnrollmentRepositoryUnenroll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	user, course := seedUserAndCourse(t, db)
	ctx := context.Background()

	enrollment := models.Enrollment{UserID: user.ID, CourseID: course.ID, EnrollmentDate: time.Now().UTC()}
	require.NoError(t, repo.Enroll(ctx, &enrollment))

	require.NoError(t, repo.Unenroll(ctx, user.ID, course.ID))
	_, err := repo.Find(ctx, user.ID, course.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var storedCourse models.Course
	require.NoError(t, db.First(&storedCourse, "id = ?", course.ID).Error)
	require.Zero(t, storedCourse.NumberOfStudents)

	err = repo.Unenroll(ctx, user.ID, course.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEnrollmentRepositoryRecordAttemptIsConditional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	user, course := seedUserAndCourse(t, db)
	ctx := context.Background()

	enrollment := models.Enrollment{UserID: user.ID, CourseID: course.ID, EnrollmentDate: time.Now().UTC()}
	require.NoError(t, repo.Enroll(ctx, &enrollment))

	attemptedAt := time.Now().UTC()
	failed := models.AssignmentAttempt{
		CorrectAnswers:  0,
		TotalQuestions:  2,
		MinimumRequired: 1,
		Results:         map[string]interface{}{"q1": false, "q2": false},
		AttemptedAt:     attemptedAt,
	}
	require.NoError(t, repo.RecordAttempt(ctx, enrollment, &failed))

	stale := models.AssignmentAttempt{TotalQuestions: 2, MinimumRequired: 1, AttemptedAt: attemptedAt}
	require.ErrorIs(t, repo.RecordAttempt(ctx, enrollment, &stale), ErrStaleEnrollment)

	current, err := repo.Find(ctx, user.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, 1, current.AttemptCount)
	require.NotNil(t, current.DateLastAttempt)
	require.False(t, current.TestPassed)

	passed := models.AssignmentAttempt{
		CorrectAnswers:  2,
		TotalQuestions:  2,
		MinimumRequired: 1,
		Passed:          true,
		AttemptedAt:     attemptedAt.Add(2 * time.Minute),
	}
	require.NoError(t, repo.RecordAttempt(ctx, current, &passed))

	current, err = repo.Find(ctx, user.ID, course.ID)
	require.NoError(t, err)
	require.True(t, current.TestPassed)
	require.True(t, current.Completed)

	attempts, err := repo.ListAttempts(ctx, current.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	require.True(t, attempts[0].Passed, "latest attempt first")
	require.Equal(t, false, attempts[1].Results["q1"])
}

func TestAssignmentRepositoryQuestionsKeepOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	_, course := seedUserAndCourse(t, db)
	ctx := context.Background()

	assignment := models.Assignment{
		CourseID: course.ID,
		Questions: []models.Question{
			{QuestionText: "first", Answer: "a"},
			{QuestionText: "second", Answer: "b"},
			{QuestionText: "third", Answer: "c"},
		},
	}
	require.NoError(t, repo.Create(ctx, &assignment))

	stored, err := repo.GetByCourseID(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, stored.Questions, 3)
	require.Equal(t, "first", stored.Questions[0].QuestionText)
	require.Equal(t, "third", stored.Questions[2].QuestionText)

	duplicate := models.Assignment{CourseID: course.ID}
	require.ErrorIs(t, repo.Create(ctx, &duplicate), gorm.ErrDuplicatedKey)

	replacement := []models.Question{{QuestionText: "only", Answer: "x"}}
	require.NoError(t, repo.ReplaceQuestions(ctx, assignment.ID, replacement))

	stored, err = repo.GetByCourseID(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, stored.Questions, 1)
	require.Equal(t, "only", stored.Questions[0].QuestionText)

	require.NoError(t, repo.Delete(ctx, assignment.ID))
	_, err = repo.GetByCourseID(ctx, course.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var questions int64
	require.NoError(t, db.Model(&models.Question{}).Count(&questions).Error)
	require.Zero(t, questions)
}

func TestCourseRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Course{Title: "Go Basics", Description: "a", IsActive: true}))
	require.NoError(t, repo.Create(ctx, &models.Course{Title: "Advanced Go", Description: "b", IsActive: false}))
	require.NoError(t, repo.Create(ctx, &models.Course{Title: "Rust", Description: "c", IsActive: true}))

	all, err := repo.List(ctx, CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	matched, err := repo.List(ctx, CourseFilter{Search: "GO"})
	require.NoError(t, err)
	require.Len(t, matched, 2)

	active := true
	activeGo, err := repo.List(ctx, CourseFilter{Search: "go", IsActive: &active})
	require.NoError(t, err)
	require.Len(t, activeGo, 1)
	require.Equal(t, "Go Basics", activeGo[0].Title)
}

func TestCourseRepositoryDeleteReleasesUsers(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseRepository(db)
	enrollments := NewEnrollmentRepository(db)
	user, course := seedUserAndCourse(t, db)
	ctx := context.Background()

	require.NoError(t, enrollments.Enroll(ctx, &models.Enrollment{UserID: user.ID, CourseID: course.ID, EnrollmentDate: time.Now().UTC()}))
	require.NoError(t, courses.Delete(ctx, course.ID))

	var storedUser models.User
	require.NoError(t, db.First(&storedUser, "id = ?", user.ID).Error)
	require.Zero(t, storedUser.NumberOfEnrolledCourses)

	require.ErrorIs(t, courses.Delete(ctx, course.ID), gorm.ErrRecordNotFound)
}

func TestDeleteRemovesAttemptHistory(t *testing.T) {
	db := setupTestDB(t)
	courses := NewCourseRepository(db)
	users := NewUserRepository(db)
	enrollments := NewEnrollmentRepository(db)
	user, course := seedUserAndCourse(t, db)
	other := models.Course{Title: "Rust Basics", Description: "Intro", IsActive: true}
	require.NoError(t, db.Create(&other).Error)
	ctx := context.Background()

	for _, courseID := range []string{course.ID, other.ID} {
		enrollment := models.Enrollment{UserID: user.ID, CourseID: courseID, EnrollmentDate: time.Now().UTC()}
		require.NoError(t, enrollments.Enroll(ctx, &enrollment))
		attempt := models.AssignmentAttempt{TotalQuestions: 2, MinimumRequired: 1, Results: map[string]interface{}{"q1": false}, AttemptedAt: time.Now().UTC()}
		require.NoError(t, enrollments.RecordAttempt(ctx, enrollment, &attempt))
	}

	var remaining int64
	require.NoError(t, courses.Delete(ctx, course.ID))
	require.NoError(t, db.Model(&models.AssignmentAttempt{}).Count(&remaining).Error)
	require.EqualValues(t, 1, remaining)

	require.NoError(t, users.Delete(ctx, user.ID))
	require.NoError(t, db.Model(&models.AssignmentAttempt{}).Count(&remaining).Error)
	require.Zero(t, remaining)
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&remaining).Error)
	require.Zero(t, remaining)
}

func TestAdjustCounterNeverNegative(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	_, course := seedUserAndCourse(t, db)
	ctx := context.Background()

	require.NoError(t, adjustCounter(db.WithContext(ctx), &models.Course{}, "number_of_students", course.ID, -3))
	stored, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	require.Zero(t, stored.NumberOfStudents)

	require.ErrorIs(t, adjustCounter(db.WithContext(ctx), &models.Course{}, "number_of_students", "missing", 1), gorm.ErrRecordNotFound)
}

func TestUserRepositoryLookupsAndRefreshTokens(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user, _ := seedUserAndCourse(t, db)
	ctx := context.Background()

	found, err := repo.GetByEmail(ctx, " ADA@example.com ")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	token := "reset-token"
	expires := time.Now().Add(time.Hour)
	found.ResetToken = &token
	found.ResetTokenExpires = &expires
	require.NoError(t, repo.Update(ctx, &found))

	byToken, err := repo.GetByResetToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, byToken.ID)

	require.NoError(t, repo.SaveRefreshToken(ctx, &models.RefreshToken{Token: "r1", UserID: user.ID}))
	stored, err := repo.FindRefreshToken(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.UserID)

	require.NoError(t, repo.DeleteRefreshTokens(ctx, user.ID))
	_, err = repo.FindRefreshToken(ctx, "r1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAdminRepositoryCreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	admin := models.Admin{Name: "Root", Email: "root@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, &admin))

	byEmail, err := repo.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, admin.ID, byEmail.ID)

	require.ErrorIs(t, repo.Create(ctx, &models.Admin{Name: "Dup", Email: "root@example.com", Password: "x"}), gorm.ErrDuplicatedKey)

	admins, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)

	require.NoError(t, repo.Delete(ctx, admin.ID))
	require.ErrorIs(t, repo.Delete(ctx, admin.ID), gorm.ErrRecordNotFound)
}
