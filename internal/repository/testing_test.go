package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Exam{}, &models.ExamStudent{}, &models.Question{}, &models.Answer{}, &models.Result{}))

	return db
}

func createTeacher(t *testing.T, db *gorm.DB, id, email string) models.Profile {
	t.Helper()

	teacher := models.Profile{ID: id, Name: "Teacher", Email: email, Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)

	return teacher
}

func createStudent(t *testing.T, db *gorm.DB, id, email string) models.Profile {
	t.Helper()

	student := models.Profile{ID: id, Name: "Student", Email: email, Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	return student
}
