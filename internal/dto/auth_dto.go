package dto

import (
	"time"

	"github.com/examconnect/exam-api/internal/models"
)

// LoginRequest carries the credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed token together with the caller's profile.
type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// ProfileResponse serializes a profile for API clients.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProfileResponse converts a Profile model into a DTO.
func NewProfileResponse(model models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}

// NewProfileResponseSlice converts profiles into DTOs.
func NewProfileResponseSlice(profiles []models.Profile) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		responses = append(responses, NewProfileResponse(profile))
	}
	return responses
}
