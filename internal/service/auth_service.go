package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/repository"
)

// AuthService exchanges credentials for bearer tokens.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Me(ctx context.Context, principal identity.Principal) (dto.ProfileResponse, error)
}

type authService struct {
	directory identity.Directory
	issuer    *identity.TokenIssuer
	profiles  repository.ProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(directory identity.Directory, issuer *identity.TokenIssuer, profiles repository.ProfileRepository, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		directory: directory,
		issuer:    issuer,
		profiles:  profiles,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	account, err := s.directory.Authenticate(ctx, payload.Email, payload.Password)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	token, err := s.issuer.Issue(account)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	profile, err := s.profiles.GetByID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrUserNotFound
		}
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("user_id", account.ID).Str("role", account.Role).Msg("user logged in")

	return dto.LoginResponse{Token: token, User: dto.NewProfileResponse(profile)}, nil
}

func (s *authService) Me(ctx context.Context, principal identity.Principal) (dto.ProfileResponse, error) {
	profile, err := s.profiles.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrUserNotFound
		}
		return dto.ProfileResponse{}, err
	}

	return dto.NewProfileResponse(profile), nil
}
