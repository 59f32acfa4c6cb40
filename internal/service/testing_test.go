package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&identity.Account{},
		&models.Profile{},
		&models.Exam{},
		&models.ExamStudent{},
		&models.Question{},
		&models.Answer{},
		&models.Result{},
	))

	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New()
}

func createProfile(t *testing.T, db *gorm.DB, id, email, role string) models.Profile {
	t.Helper()

	profile := models.Profile{ID: id, Email: email, Name: strings.Split(email, "@")[0], Role: role}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

func createExam(t *testing.T, db *gorm.DB, teacherID, title, status string) models.Exam {
	t.Helper()

	exam := models.Exam{Title: title, TeacherID: teacherID, DurationMinutes: 60, Status: status}
	require.NoError(t, db.Create(&exam).Error)
	return exam
}

func createQuestion(t *testing.T, db *gorm.DB, examID uint, text string, marks int) models.Question {
	t.Helper()

	question := models.Question{ExamID: examID, QuestionText: text, Marks: marks}
	require.NoError(t, db.Create(&question).Error)
	return question
}

func assignStudent(t *testing.T, db *gorm.DB, examID uint, studentID string) {
	t.Helper()

	require.NoError(t, db.Create(&models.ExamStudent{ExamID: examID, StudentID: studentID}).Error)
}
