package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/models"
)

// AnswerRepository defines persistence operations for answers.
type AnswerRepository interface {
	GetByID(ctx context.Context, id uint) (models.Answer, error)
	GetByQuestionAndStudent(ctx context.Context, questionID uint, studentID string) (models.Answer, error)
	ListByQuestions(ctx context.Context, questionIDs []uint) ([]models.Answer, error)
	ListByQuestionsAndStudent(ctx context.Context, questionIDs []uint, studentID string) ([]models.Answer, error)
	Create(ctx context.Context, answer *models.Answer) error
	Update(ctx context.Context, answer *models.Answer) error
	CountAll(ctx context.Context) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository instantiates a GORM-backed repository.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) GetByID(ctx context.Context, id uint) (models.Answer, error) {
	var answer models.Answer
	if err := r.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		return models.Answer{}, err
	}

	return answer, nil
}

func (r *answerRepository) GetByQuestionAndStudent(ctx context.Context, questionID uint, studentID string) (models.Answer, error) {
	var answer models.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ? AND student_id = ?", questionID, studentID).
		First(&answer).Error
	if err != nil {
		return models.Answer{}, err
	}

	return answer, nil
}

func (r *answerRepository) ListByQuestions(ctx context.Context, questionIDs []uint) ([]models.Answer, error) {
	if len(questionIDs) == 0 {
		return []models.Answer{}, nil
	}

	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("question_id IN ?", questionIDs).
		Order("question_id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	return answers, nil
}

func (r *answerRepository) ListByQuestionsAndStudent(ctx context.Context, questionIDs []uint, studentID string) ([]models.Answer, error) {
	if len(questionIDs) == 0 {
		return []models.Answer{}, nil
	}

	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("question_id IN ? AND student_id = ?", questionIDs, studentID).
		Order("question_id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	return answers, nil
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) Update(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Save(answer).Error
}

func (r *answerRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Answer{}).Count(&count).Error
	return count, err
}
