package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/models"
)

// ResultRepository defines persistence operations for exam results.
type ResultRepository interface {
	ListByExam(ctx context.Context, examID uint) ([]models.Result, error)
	ListPublishedByStudent(ctx context.Context, studentID string) ([]models.Result, error)
	// PublishAll upserts every computed result keyed by (exam_id, student_id)
	// and flips the exam status to completed, atomically.
	PublishAll(ctx context.Context, examID uint, results []models.Result) ([]models.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates a GORM-backed repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) ListByExam(ctx context.Context, examID uint) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("exam_id = ?", examID).
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) ListPublishedByStudent(ctx context.Context, studentID string) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Preload("Exam").
		Where("student_id = ? AND published = ?", studentID, true).
		Order("exam_id DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) PublishAll(ctx context.Context, examID uint, results []models.Result) ([]models.Result, error) {
	saved := make([]models.Result, 0, len(results))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, result := range results {
			var existing models.Result
			err := tx.Where("exam_id = ? AND student_id = ?", result.ExamID, result.StudentID).
				First(&existing).Error
			switch {
			case err == nil:
				existing.TotalMarks = result.TotalMarks
				existing.ObtainedMarks = result.ObtainedMarks
				existing.Percentage = result.Percentage
				existing.Published = true
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				saved = append(saved, existing)
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&result).Error; err != nil {
					return err
				}
				saved = append(saved, result)
			default:
				return err
			}
		}

		return tx.Model(&models.Exam{}).
			Where("id = ?", examID).
			Update("status", models.ExamStatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}
