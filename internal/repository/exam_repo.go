package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/models"
)

// ExamUpdate carries the partial column set a teacher may change on an exam.
type ExamUpdate map[string]interface{}

// ExamRepository defines persistence operations for exams, including the
// ordered cascade that removes an exam together with its dependents.
type ExamRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Exam, error)
	ListAll(ctx context.Context) ([]models.Exam, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Exam, error)
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	GetOwned(ctx context.Context, id uint, teacherID string) (models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	UpdateOwned(ctx context.Context, id uint, teacherID string, update ExamUpdate) (models.Exam, error)
	DeleteCascade(ctx context.Context, id uint, teacherID string) error
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository instantiates a GORM-backed repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Exam, error) {
	var exams []models.Exam
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) ListAll(ctx context.Context) ([]models.Exam, error) {
	var exams []models.Exam
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Order("created_at DESC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Exam, error) {
	if len(ids) == 0 {
		return []models.Exam{}, nil
	}

	var exams []models.Exam
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("id IN ?", ids).
		Order("scheduled_start DESC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) GetOwned(ctx context.Context, id uint, teacherID string) (models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&exam).Error
	if err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

// UpdateOwned applies the partial update scoped to the owning teacher.
// Matching zero rows reads as not found, so another teacher's exam cannot be
// modified nor probed for existence.
func (r *examRepository) UpdateOwned(ctx context.Context, id uint, teacherID string, update ExamUpdate) (models.Exam, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Updates(map[string]interface{}(update))
	if result.Error != nil {
		return models.Exam{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Exam{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

// DeleteCascade removes the exam and its dependents inside one transaction,
// in dependency order: answers, questions, roster rows, results, exam.
// With a non-empty teacherID the exam's ownership is checked before any
// child row is touched.
func (r *examRepository) DeleteCascade(ctx context.Context, id uint, teacherID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exam := models.Exam{}
		query := tx.Where("id = ?", id)
		if teacherID != "" {
			query = query.Where("teacher_id = ?", teacherID)
		}
		if err := query.First(&exam).Error; err != nil {
			return err
		}

		questionIDs := tx.Model(&models.Question{}).Select("id").Where("exam_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", id).Delete(&models.ExamStudent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", id).Delete(&models.Result{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Exam{}, id).Error
	})
}
