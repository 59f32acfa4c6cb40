package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/models"
)

// QuestionRepository defines persistence operations for questions.
type QuestionRepository interface {
	ListByExam(ctx context.Context, examID uint) ([]models.Question, error)
	IDsByExam(ctx context.Context, examID uint) ([]uint, error)
	GetByID(ctx context.Context, id uint) (models.Question, error)
	Create(ctx context.Context, question *models.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates a GORM-backed repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) ListByExam(ctx context.Context, examID uint) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("order_index ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) IDsByExam(ctx context.Context, examID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("exam_id = ?", examID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}
