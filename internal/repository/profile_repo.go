package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/models"
)

// ProfileRepository defines persistence operations for user profiles.
type ProfileRepository interface {
	List(ctx context.Context, role string) ([]models.Profile, error)
	ListStudents(ctx context.Context) ([]models.Profile, error)
	GetByID(ctx context.Context, id string) (models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository instantiates a GORM-backed repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) List(ctx context.Context, role string) ([]models.Profile, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var profiles []models.Profile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) ListStudents(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Order("name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) UpdateRole(ctx context.Context, id, role string) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Profile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
