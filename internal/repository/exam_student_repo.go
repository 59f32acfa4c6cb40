package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/models"
)

// ExamStudentRepository manages the exam roster join rows.
type ExamStudentRepository interface {
	ListByExam(ctx context.Context, examID uint) ([]models.ExamStudent, error)
	ExamIDsByStudent(ctx context.Context, studentID string) ([]uint, error)
	Exists(ctx context.Context, examID uint, studentID string) (bool, error)
	AssignedStudentIDs(ctx context.Context, examID uint) (map[string]struct{}, error)
	BulkInsert(ctx context.Context, assignments []models.ExamStudent) error
	DeleteByStudent(ctx context.Context, studentID string) error
}

type examStudentRepository struct {
	db *gorm.DB
}

// NewExamStudentRepository instantiates a GORM-backed repository.
func NewExamStudentRepository(db *gorm.DB) ExamStudentRepository {
	return &examStudentRepository{db: db}
}

func (r *examStudentRepository) ListByExam(ctx context.Context, examID uint) ([]models.ExamStudent, error) {
	var assignments []models.ExamStudent
	err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *examStudentRepository) ExamIDsByStudent(ctx context.Context, studentID string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ExamStudent{}).
		Where("student_id = ?", studentID).
		Pluck("exam_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *examStudentRepository) Exists(ctx context.Context, examID uint, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExamStudent{}).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *examStudentRepository) AssignedStudentIDs(ctx context.Context, examID uint) (map[string]struct{}, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.ExamStudent{}).
		Where("exam_id = ?", examID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		assigned[id] = struct{}{}
	}

	return assigned, nil
}

func (r *examStudentRepository) BulkInsert(ctx context.Context, assignments []models.ExamStudent) error {
	if len(assignments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *examStudentRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.ExamStudent{}).Error
}
