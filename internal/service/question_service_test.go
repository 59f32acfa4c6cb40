package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
)

func newQuestionService(t *testing.T) (QuestionService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewQuestionService(
		repository.NewQuestionRepository(db),
		repository.NewExamRepository(db),
		testValidator(),
		&stubUploader{},
		testLogger(),
	)
	return svc, db
}

func TestQuestionAddSanitizesText(t *testing.T) {
	svc, db := newQuestionService(t)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)
	exam := createExam(t, db, teacher.ID, "Grammar Exam", models.ExamStatusDraft)

	question, err := svc.Add(context.Background(), exam.ID, dto.QuestionCreateRequest{
		QuestionText: "<img src=x onerror=alert(1)>Correct the sentence",
		Marks:        5,
		OrderIndex:   1,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "Correct the sentence", question.QuestionText)
	require.Equal(t, 5, question.Marks)
}

func TestQuestionAddUnknownExam(t *testing.T) {
	svc, _ := newQuestionService(t)

	_, err := svc.Add(context.Background(), 404, dto.QuestionCreateRequest{QuestionText: "Orphan", Marks: 1}, nil)
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestQuestionAddRejectsNonPositiveMarks(t *testing.T) {
	svc, db := newQuestionService(t)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)
	exam := createExam(t, db, teacher.ID, "Strict Exam", models.ExamStatusDraft)

	_, err := svc.Add(context.Background(), exam.ID, dto.QuestionCreateRequest{QuestionText: "Zero", Marks: 0}, nil)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestQuestionListOrdersByOrderIndex(t *testing.T) {
	svc, db := newQuestionService(t)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)
	exam := createExam(t, db, teacher.ID, "Ordered Exam", models.ExamStatusDraft)

	require.NoError(t, db.Create(&models.Question{ExamID: exam.ID, QuestionText: "second", Marks: 1, OrderIndex: 2}).Error)
	require.NoError(t, db.Create(&models.Question{ExamID: exam.ID, QuestionText: "first", Marks: 1, OrderIndex: 1}).Error)

	questions, err := svc.ListByExam(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Equal(t, "first", questions[0].QuestionText)
	require.Equal(t, "second", questions[1].QuestionText)
}
