package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/models"
)

// StatsRepository supplies the counts behind the admin dashboard.
type StatsRepository interface {
	CountProfiles(ctx context.Context, role string) (int64, error)
	CountExams(ctx context.Context, status string) (int64, error)
	CountAnswers(ctx context.Context) (int64, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository constructs the stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountProfiles(ctx context.Context, role string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *statsRepository) CountExams(ctx context.Context, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Exam{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *statsRepository) CountAnswers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Answer{}).Count(&count).Error
	return count, err
}
