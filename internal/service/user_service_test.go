package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
)

func newUserService(t *testing.T, cache *redis.Client) (UserService, identity.Directory, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	directory := identity.NewDirectory(db, testLogger())
	svc := NewUserService(
		repository.NewProfileRepository(db),
		repository.NewExamStudentRepository(db),
		repository.NewStatsRepository(db),
		directory,
		cache,
		time.Minute,
		"student123",
		testValidator(),
		testLogger(),
	)
	return svc, directory, db
}

func TestUserCreateMirrorsAccountAndProfile(t *testing.T) {
	svc, directory, db := newUserService(t, nil)

	created, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Name:  "New Student",
		Email: "new.student@example.com",
	}, models.RoleStudent)
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, created.Role)

	var profile models.Profile
	require.NoError(t, db.Where("email = ?", "new.student@example.com").First(&profile).Error)
	require.Equal(t, created.ID, profile.ID)

	// omitted password falls back to the configured default
	account, err := directory.Authenticate(context.Background(), "new.student@example.com", "student123")
	require.NoError(t, err)
	require.Equal(t, profile.ID, account.ID)
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserService(t, nil)

	payload := dto.UserCreateRequest{Name: "Dup", Email: "dup@example.com", Password: "secret1"}
	_, err := svc.Create(context.Background(), payload, models.RoleStudent)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), payload, models.RoleStudent)
	require.ErrorIs(t, err, identity.ErrEmailTaken)
}

func TestUserUpdateRolePropagatesIntoNewTokens(t *testing.T) {
	svc, directory, _ := newUserService(t, nil)

	created, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Name:     "Promoted",
		Email:    "promoted@example.com",
		Password: "secret1",
	}, models.RoleStudent)
	require.NoError(t, err)

	updated, err := svc.UpdateRole(context.Background(), created.ID, models.RoleTeacher)
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, updated.Role)

	issuer, err := identity.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	account, err := directory.GetAccount(context.Background(), created.ID)
	require.NoError(t, err)

	token, err := issuer.Issue(account)
	require.NoError(t, err)

	principal, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, principal.Role)
}

func TestUserDeleteRefusesSelf(t *testing.T) {
	svc, _, _ := newUserService(t, nil)

	created, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "secret1",
	}, models.RoleAdmin)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, created.ID), ErrSelfDelete)
}

func TestUserDeleteStudentRemovesRosterRows(t *testing.T) {
	svc, _, db := newUserService(t, nil)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)

	created, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Name:     "Leaving Student",
		Email:    "leaving@example.com",
		Password: "secret1",
	}, models.RoleStudent)
	require.NoError(t, err)

	exam := createExam(t, db, teacher.ID, "Roster Exam", models.ExamStatusActive)
	assignStudent(t, db, exam.ID, created.ID)

	require.NoError(t, svc.DeleteStudent(context.Background(), created.ID))

	var count int64
	require.NoError(t, db.Model(&models.ExamStudent{}).Where("student_id = ?", created.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", created.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestUserDashboardStatsServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc, _, db := newUserService(t, cache)

	teacher := createProfile(t, db, "00000000-0000-0000-0000-000000000001", "teacher@example.com", models.RoleTeacher)
	createProfile(t, db, "00000000-0000-0000-0000-000000000002", "student@example.com", models.RoleStudent)

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalUsers)
	require.EqualValues(t, 1, stats.TotalTeachers)
	require.EqualValues(t, 1, stats.TotalStudents)

	// the cached snapshot is served until the TTL lapses
	createExam(t, db, teacher.ID, "Uncounted Exam", models.ExamStatusActive)

	cached, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 0, cached.TotalExams)

	mr.FastForward(2 * time.Minute)

	fresh, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, fresh.TotalExams)
}

func TestUserListRejectsUnknownRoleFilter(t *testing.T) {
	svc, _, _ := newUserService(t, nil)

	_, err := svc.List(context.Background(), "superuser")
	require.ErrorIs(t, err, ErrInvalidRole)
}
