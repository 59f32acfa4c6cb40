package handler_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/config"
	"github.com/examconnect/exam-api/internal/handler"
	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/middleware"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
	"github.com/examconnect/exam-api/internal/router"
	"github.com/examconnect/exam-api/internal/service"
)

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	directory identity.Directory
	issuer    *identity.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
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

	logger := zerolog.Nop()
	validate := validator.New()

	issuer, err := identity.NewTokenIssuer("handler-test-secret", time.Hour)
	require.NoError(t, err)
	directory := identity.NewDirectory(db, logger)

	profiles := repository.NewProfileRepository(db)
	exams := repository.NewExamRepository(db)
	assignments := repository.NewExamStudentRepository(db)
	questions := repository.NewQuestionRepository(db)
	answers := repository.NewAnswerRepository(db)
	results := repository.NewResultRepository(db)
	stats := repository.NewStatsRepository(db)

	authService := service.NewAuthService(directory, issuer, profiles, validate, logger)
	userService := service.NewUserService(profiles, assignments, stats, directory, nil, time.Minute, "student123", validate, logger)
	examService := service.NewExamService(exams, assignments, validate, logger)
	questionService := service.NewQuestionService(questions, exams, validate, nil, logger)
	submissionService := service.NewSubmissionService(exams, assignments, questions, answers, results, validate, nil, logger)
	gradingService := service.NewGradingService(exams, questions, assignments, answers, results, validate, nil, logger)

	cfg := config.Config{AppName: "ExamConnect API"}

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    handler.NewAuthHandler(authService, logger),
		AdminHandler:   handler.NewAdminHandler(userService, examService, logger),
		TeacherHandler: handler.NewTeacherHandler(userService, examService, questionService, gradingService, logger),
		StudentHandler: handler.NewStudentHandler(submissionService, logger),
		Authenticate:   middleware.Authenticate(issuer),
	})

	return &testEnv{app: app, db: db, directory: directory, issuer: issuer}
}

func (e *testEnv) createAccount(t *testing.T, email, role string) (identity.Account, string) {
	t.Helper()

	account, err := e.directory.CreateAccount(t.Context(), email, "secret1", strings.Split(email, "@")[0], role)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(&models.Profile{ID: account.ID, Email: account.Email, Name: account.Name, Role: account.Role}).Error)

	token, err := e.issuer.Issue(account)
	require.NoError(t, err)
	return account, token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body io.Reader) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "ExamConnect API is running", body["message"])
}

func TestStudentRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/student/exams", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body["error"])
}

func TestStudentRoutesRejectWrongRole(t *testing.T) {
	env := newTestEnv(t)

	_, teacherToken := env.createAccount(t, "teacher@example.com", models.RoleTeacher)

	resp := env.request(t, http.MethodGet, "/api/student/exams", teacherToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "student access required", body["error"])
}

func TestStudentQuestionsForbiddenWhenNotAssigned(t *testing.T) {
	env := newTestEnv(t)

	teacher, _ := env.createAccount(t, "teacher@example.com", models.RoleTeacher)
	_, studentToken := env.createAccount(t, "student@example.com", models.RoleStudent)

	exam := models.Exam{Title: "Closed Exam", TeacherID: teacher.ID, DurationMinutes: 60, Status: models.ExamStatusActive}
	require.NoError(t, env.db.Create(&exam).Error)

	resp := env.request(t, http.MethodGet, fmt.Sprintf("/api/student/exams/%d/questions", exam.ID), studentToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "you are not assigned to this exam", body["error"])
}

func TestStudentListsOnlyAssignedExams(t *testing.T) {
	env := newTestEnv(t)

	teacher, _ := env.createAccount(t, "teacher@example.com", models.RoleTeacher)
	student, studentToken := env.createAccount(t, "student@example.com", models.RoleStudent)

	assigned := models.Exam{Title: "Assigned Exam", TeacherID: teacher.ID, DurationMinutes: 60, Status: models.ExamStatusActive}
	require.NoError(t, env.db.Create(&assigned).Error)
	other := models.Exam{Title: "Other Exam", TeacherID: teacher.ID, DurationMinutes: 60, Status: models.ExamStatusActive}
	require.NoError(t, env.db.Create(&other).Error)
	require.NoError(t, env.db.Create(&models.ExamStudent{ExamID: assigned.ID, StudentID: student.ID}).Error)

	resp := env.request(t, http.MethodGet, "/api/student/exams", studentToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	decodeBody(t, resp, &body)
	require.Len(t, body, 1)
	require.Equal(t, "Assigned Exam", body[0]["title"])
}

func TestStudentSubmitAnswerMultipart(t *testing.T) {
	env := newTestEnv(t)

	teacher, _ := env.createAccount(t, "teacher@example.com", models.RoleTeacher)
	student, studentToken := env.createAccount(t, "student@example.com", models.RoleStudent)

	exam := models.Exam{Title: "Open Exam", TeacherID: teacher.ID, DurationMinutes: 60, Status: models.ExamStatusActive}
	require.NoError(t, env.db.Create(&exam).Error)
	question := models.Question{ExamID: exam.ID, QuestionText: "Explain", Marks: 10}
	require.NoError(t, env.db.Create(&question).Error)
	require.NoError(t, env.db.Create(&models.ExamStudent{ExamID: exam.ID, StudentID: student.ID}).Error)

	form := fmt.Sprintf("question_id=%d&answer_text=%s", question.ID, "my+answer")
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/student/exams/%d/submit", exam.ID), strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+studentToken)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	require.Equal(t, "my answer", body["answer_text"])

	var count int64
	require.NoError(t, env.db.Model(&models.Answer{}).Where("student_id = ?", student.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	env := newTestEnv(t)

	env.createAccount(t, "admin@example.com", models.RoleAdmin)

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", strings.NewReader(`{"email":"admin@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	require.Equal(t, models.RoleAdmin, body.User.Role)

	statsResp := env.request(t, http.MethodGet, "/api/admin/dashboard-stats", body.Token, nil)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	env.createAccount(t, "admin@example.com", models.RoleAdmin)

	resp := env.request(t, http.MethodPost, "/api/auth/login", "", strings.NewReader(`{"email":"admin@example.com","password":"wrong-pass"}`))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "invalid credentials", body["error"])
}
