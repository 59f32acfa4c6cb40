package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
)

const statsCacheKey = "dashboard:admin:stats"

// UserService manages platform users: admin user administration and the
// teacher-facing student roster.
type UserService interface {
	DashboardStats(ctx context.Context) (dto.DashboardStats, error)
	List(ctx context.Context, role string) ([]dto.ProfileResponse, error)
	ListStudents(ctx context.Context) ([]dto.ProfileResponse, error)
	Create(ctx context.Context, payload dto.UserCreateRequest, defaultRole string) (dto.ProfileResponse, error)
	UpdateRole(ctx context.Context, userID, role string) (dto.ProfileResponse, error)
	Delete(ctx context.Context, actorID, userID string) error
	DeleteStudent(ctx context.Context, studentID string) error
}

type userService struct {
	profiles    repository.ProfileRepository
	assignments repository.ExamStudentRepository
	stats       repository.StatsRepository
	directory   identity.Directory
	cache       *redis.Client
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      zerolog.Logger
	defaultPass string
}

// NewUserService constructs a UserService instance. The cache client may be
// nil; dashboard stats are then computed on every call.
func NewUserService(profiles repository.ProfileRepository, assignments repository.ExamStudentRepository, stats repository.StatsRepository, directory identity.Directory, cache *redis.Client, cacheTTL time.Duration, defaultStudentPassword string, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		profiles:    profiles,
		assignments: assignments,
		stats:       stats,
		directory:   directory,
		cache:       cache,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger.With().Str("component", "user_service").Logger(),
		defaultPass: defaultStudentPassword,
	}
}

func (s *userService) DashboardStats(ctx context.Context) (dto.DashboardStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats dto.DashboardStats
			if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard stats cache hit")
				return stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	stats := dto.DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.stats.CountProfiles(ctx, ""); err != nil {
		return dto.DashboardStats{}, err
	}
	if stats.TotalTeachers, err = s.stats.CountProfiles(ctx, models.RoleTeacher); err != nil {
		return dto.DashboardStats{}, err
	}
	if stats.TotalStudents, err = s.stats.CountProfiles(ctx, models.RoleStudent); err != nil {
		return dto.DashboardStats{}, err
	}
	if stats.TotalExams, err = s.stats.CountExams(ctx, ""); err != nil {
		return dto.DashboardStats{}, err
	}
	if stats.ActiveExams, err = s.stats.CountExams(ctx, models.ExamStatusActive); err != nil {
		return dto.DashboardStats{}, err
	}
	if stats.TotalSubmissions, err = s.stats.CountAnswers(ctx); err != nil {
		return dto.DashboardStats{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return stats, nil
}

func (s *userService) List(ctx context.Context, role string) ([]dto.ProfileResponse, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	profiles, err := s.profiles.List(ctx, role)
	if err != nil {
		return nil, err
	}

	return dto.NewProfileResponseSlice(profiles), nil
}

func (s *userService) ListStudents(ctx context.Context) ([]dto.ProfileResponse, error) {
	profiles, err := s.profiles.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewProfileResponseSlice(profiles), nil
}

// Create registers an identity account and mirrors it into the profile
// table. An empty payload role falls back to defaultRole; an empty password
// falls back to the configured default student password.
func (s *userService) Create(ctx context.Context, payload dto.UserCreateRequest, defaultRole string) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfileResponse{}, err
	}

	role := payload.Role
	if role == "" {
		role = defaultRole
	}
	if !models.ValidRole(role) {
		return dto.ProfileResponse{}, ErrInvalidRole
	}

	password := payload.Password
	if password == "" {
		password = s.defaultPass
	}

	account, err := s.directory.CreateAccount(ctx, payload.Email, password, payload.Name, role)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	profile := models.Profile{
		ID:    account.ID,
		Name:  payload.Name,
		Email: account.Email,
		Role:  role,
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().Str("user_id", account.ID).Str("role", role).Msg("user created")

	return dto.NewProfileResponse(profile), nil
}

// UpdateRole changes the profile role and mirrors it into the identity
// account so freshly issued tokens carry the updated claim.
func (s *userService) UpdateRole(ctx context.Context, userID, role string) (dto.ProfileResponse, error) {
	if !models.ValidRole(role) {
		return dto.ProfileResponse{}, ErrInvalidRole
	}

	if err := s.profiles.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrUserNotFound
		}
		return dto.ProfileResponse{}, err
	}

	if err := s.directory.UpdateRole(ctx, userID, role); err != nil && !errors.Is(err, identity.ErrAccountNotFound) {
		return dto.ProfileResponse{}, err
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().Str("user_id", userID).Str("role", role).Msg("role updated")

	return dto.NewProfileResponse(profile), nil
}

func (s *userService) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return ErrSelfDelete
	}

	if err := s.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.directory.DeleteAccount(ctx, userID); err != nil && !errors.Is(err, identity.ErrAccountNotFound) {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("user deleted")

	return nil
}

// DeleteStudent removes a student together with their roster rows.
func (s *userService) DeleteStudent(ctx context.Context, studentID string) error {
	if err := s.assignments.DeleteByStudent(ctx, studentID); err != nil {
		return err
	}

	if err := s.profiles.Delete(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.directory.DeleteAccount(ctx, studentID); err != nil && !errors.Is(err, identity.ErrAccountNotFound) {
		return err
	}

	s.logger.Info().Str("student_id", studentID).Msg("student removed")

	return nil
}
