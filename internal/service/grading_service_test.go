package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
)

func newGradingService(t *testing.T) (GradingService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewGradingService(
		repository.NewExamRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewExamStudentRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewResultRepository(db),
		testValidator(),
		nil,
		testLogger(),
	)
	return svc, db
}

func TestGradingPublishAggregatesMarksPerStudent(t *testing.T) {
	svc, db := newGradingService(t)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)
	alice := createProfile(t, db, "00000000-0000-0000-0000-000000000002", "alice@example.com", models.RoleStudent)
	bob := createProfile(t, db, "00000000-0000-0000-0000-000000000003", "bob@example.com", models.RoleStudent)

	exam := createExam(t, db, teacher.ID, "Chemistry Final", models.ExamStatusActive)
	q1 := createQuestion(t, db, exam.ID, "Balance the equation", 10)
	q2 := createQuestion(t, db, exam.ID, "Explain the reaction", 20)
	assignStudent(t, db, exam.ID, alice.ID)
	assignStudent(t, db, exam.ID, bob.ID)

	ten, fifteen, five := 10, 15, 5
	require.NoError(t, db.Create(&models.Answer{QuestionID: q1.ID, StudentID: alice.ID, AnswerText: "a", ObtainedMarks: &ten}).Error)
	require.NoError(t, db.Create(&models.Answer{QuestionID: q2.ID, StudentID: alice.ID, AnswerText: "b", ObtainedMarks: &fifteen}).Error)
	require.NoError(t, db.Create(&models.Answer{QuestionID: q1.ID, StudentID: bob.ID, AnswerText: "c"}).Error)
	require.NoError(t, db.Create(&models.Answer{QuestionID: q2.ID, StudentID: bob.ID, AnswerText: "d", ObtainedMarks: &five}).Error)

	results, err := svc.Publish(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byStudent := make(map[string]dto.ResultResponse, len(results))
	for _, result := range results {
		byStudent[result.StudentID] = result
	}

	require.Equal(t, 30, byStudent[alice.ID].TotalMarks)
	require.Equal(t, 25, byStudent[alice.ID].ObtainedMarks)
	require.InDelta(t, 83.33, byStudent[alice.ID].Percentage, 0.001)
	require.True(t, byStudent[alice.ID].Published)

	// ungraded answers count as zero
	require.Equal(t, 5, byStudent[bob.ID].ObtainedMarks)
	require.InDelta(t, 16.67, byStudent[bob.ID].Percentage, 0.001)

	var current models.Exam
	require.NoError(t, db.First(&current, exam.ID).Error)
	require.Equal(t, models.ExamStatusCompleted, current.Status)
}

func TestGradingPublishIsIdempotentPerStudent(t *testing.T) {
	svc, db := newGradingService(t)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)
	student := createProfile(t, db, "00000000-0000-0000-0000-000000000002", "student@example.com", models.RoleStudent)

	exam := createExam(t, db, teacher.ID, "Physics Quiz", models.ExamStatusActive)
	question := createQuestion(t, db, exam.ID, "Define inertia", 10)
	assignStudent(t, db, exam.ID, student.ID)

	four := 4
	answer := models.Answer{QuestionID: question.ID, StudentID: student.ID, AnswerText: "resists change", ObtainedMarks: &four}
	require.NoError(t, db.Create(&answer).Error)

	_, err := svc.Publish(context.Background(), exam.ID)
	require.NoError(t, err)

	// regrade, then republish: the existing row is updated, not duplicated
	eight := 8
	require.NoError(t, db.Model(&models.Answer{}).Where("id = ?", answer.ID).Update("obtained_marks", &eight).Error)

	results, err := svc.Publish(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 8, results[0].ObtainedMarks)

	var count int64
	require.NoError(t, db.Model(&models.Result{}).Where("exam_id = ?", exam.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGradingPublishWithoutQuestionsYieldsZeroPercentage(t *testing.T) {
	svc, db := newGradingService(t)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)
	student := createProfile(t, db, "00000000-0000-0000-0000-000000000002", "student@example.com", models.RoleStudent)

	exam := createExam(t, db, teacher.ID, "Empty Exam", models.ExamStatusActive)
	assignStudent(t, db, exam.ID, student.ID)

	results, err := svc.Publish(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 0, results[0].TotalMarks)
	require.Equal(t, 0.0, results[0].Percentage)
}

func TestGradingPublishUnknownExam(t *testing.T) {
	svc, _ := newGradingService(t)

	_, err := svc.Publish(context.Background(), 404)
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestGradingMarkRejectsMarksAboveQuestionMaximum(t *testing.T) {
	svc, db := newGradingService(t)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)
	student := createProfile(t, db, "00000000-0000-0000-0000-000000000002", "student@example.com", models.RoleStudent)

	exam := createExam(t, db, teacher.ID, "Geometry Quiz", models.ExamStatusActive)
	question := createQuestion(t, db, exam.ID, "Prove the theorem", 10)
	assignStudent(t, db, exam.ID, student.ID)

	answer := models.Answer{QuestionID: question.ID, StudentID: student.ID, AnswerText: "QED"}
	require.NoError(t, db.Create(&answer).Error)

	_, err := svc.Mark(context.Background(), answer.ID, dto.MarkAnswerRequest{ObtainedMarks: 11})
	require.ErrorIs(t, err, ErrMarksOutOfRange)

	marked, err := svc.Mark(context.Background(), answer.ID, dto.MarkAnswerRequest{ObtainedMarks: 10, Feedback: "well argued"})
	require.NoError(t, err)
	require.NotNil(t, marked.ObtainedMarks)
	require.Equal(t, 10, *marked.ObtainedMarks)
	require.Equal(t, "well argued", marked.Feedback)
}

func TestGradingMarkUnknownAnswer(t *testing.T) {
	svc, _ := newGradingService(t)

	_, err := svc.Mark(context.Background(), 999, dto.MarkAnswerRequest{ObtainedMarks: 1})
	require.ErrorIs(t, err, ErrAnswerNotFound)
}
