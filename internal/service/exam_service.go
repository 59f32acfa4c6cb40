package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
)

// ExamService orchestrates the exam lifecycle: creation, updates, roster
// assignment, and the ordered cascade delete.
type ExamService interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]dto.ExamResponse, error)
	Create(ctx context.Context, teacherID string, payload dto.ExamCreateRequest) (dto.ExamResponse, error)
	Get(ctx context.Context, teacherID string, examID uint) (dto.ExamResponse, error)
	Update(ctx context.Context, teacherID string, examID uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error)
	Delete(ctx context.Context, teacherID string, examID uint) error
	AssignStudents(ctx context.Context, examID uint, studentIDs []string) (int, error)
	ListAll(ctx context.Context) ([]dto.ExamResponse, error)
	DeleteAny(ctx context.Context, examID uint) error
}

type examService struct {
	exams       repository.ExamRepository
	assignments repository.ExamStudentRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewExamService constructs an ExamService instance.
func NewExamService(exams repository.ExamRepository, assignments repository.ExamStudentRepository, validate *validator.Validate, logger zerolog.Logger) ExamService {
	return &examService{
		exams:       exams,
		assignments: assignments,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "exam_service").Logger(),
		tracer:      otel.Tracer("github.com/examconnect/exam-api/internal/service/exam"),
	}
}

func (s *examService) ListByTeacher(ctx context.Context, teacherID string) ([]dto.ExamResponse, error) {
	exams, err := s.exams.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewExamResponseSlice(exams), nil
}

func (s *examService) Create(ctx context.Context, teacherID string, payload dto.ExamCreateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.ExamStatusDraft
	}

	duration := payload.DurationMinutes
	if duration <= 0 {
		duration = 60
	}

	exam := models.Exam{
		Title:           s.sanitizer.Sanitize(payload.Title),
		Description:     s.sanitizer.Sanitize(payload.Description),
		TeacherID:       teacherID,
		ScheduledStart:  payload.ScheduledStart,
		ScheduledEnd:    payload.ScheduledEnd,
		DurationMinutes: duration,
		Status:          status,
	}

	if err := s.exams.Create(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	if len(payload.StudentIDs) > 0 {
		if _, err := s.AssignStudents(ctx, exam.ID, payload.StudentIDs); err != nil {
			return dto.ExamResponse{}, err
		}
	}

	s.logger.Info().Uint("exam_id", exam.ID).Str("teacher_id", teacherID).Msg("exam created")

	return dto.NewExamResponse(exam), nil
}

func (s *examService) Get(ctx context.Context, teacherID string, examID uint) (dto.ExamResponse, error) {
	exam, err := s.exams.GetOwned(ctx, examID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrExamNotFound
		}
		return dto.ExamResponse{}, err
	}

	return dto.NewExamResponse(exam), nil
}

// Update applies the allowed partial fields, scoped to the owning teacher.
// An exam owned by someone else reads as not found.
func (s *examService) Update(ctx context.Context, teacherID string, examID uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	update := repository.ExamUpdate{}
	if payload.Title != nil {
		update["title"] = s.sanitizer.Sanitize(*payload.Title)
	}
	if payload.Description != nil {
		update["description"] = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.ScheduledStart != nil {
		update["scheduled_start"] = *payload.ScheduledStart
	}
	if payload.ScheduledEnd != nil {
		update["scheduled_end"] = *payload.ScheduledEnd
	}
	if payload.DurationMinutes != nil {
		update["duration_minutes"] = *payload.DurationMinutes
	}
	if payload.Status != nil {
		update["status"] = *payload.Status
	}

	if len(update) == 0 {
		return s.Get(ctx, teacherID, examID)
	}

	exam, err := s.exams.UpdateOwned(ctx, examID, teacherID, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrExamNotFound
		}
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", examID).Msg("exam updated")

	return dto.NewExamResponse(exam), nil
}

func (s *examService) Delete(ctx context.Context, teacherID string, examID uint) error {
	return s.deleteCascade(ctx, examID, teacherID)
}

func (s *examService) DeleteAny(ctx context.Context, examID uint) error {
	return s.deleteCascade(ctx, examID, "")
}

func (s *examService) deleteCascade(ctx context.Context, examID uint, teacherID string) error {
	spanCtx, span := s.tracer.Start(ctx, "exams.cascade_delete", trace.WithAttributes(
		attribute.Int("exam.id", int(examID)),
	))
	defer span.End()

	if err := s.exams.DeleteCascade(spanCtx, examID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return err
	}

	s.logger.Info().Uint("exam_id", examID).Msg("exam deleted with dependents")

	return nil
}

// AssignStudents bulk-inserts roster rows, skipping students that are
// already assigned so re-submitting a roster stays idempotent.
func (s *examService) AssignStudents(ctx context.Context, examID uint, studentIDs []string) (int, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrExamNotFound
		}
		return 0, err
	}

	assigned, err := s.assignments.AssignedStudentIDs(ctx, examID)
	if err != nil {
		return 0, err
	}

	rows := make([]models.ExamStudent, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		if _, exists := assigned[studentID]; exists {
			continue
		}
		assigned[studentID] = struct{}{}
		rows = append(rows, models.ExamStudent{ExamID: examID, StudentID: studentID})
	}

	if err := s.assignments.BulkInsert(ctx, rows); err != nil {
		return 0, err
	}

	s.logger.Info().Uint("exam_id", examID).Int("assigned", len(rows)).Msg("students assigned")

	return len(rows), nil
}

func (s *examService) ListAll(ctx context.Context) ([]dto.ExamResponse, error) {
	exams, err := s.exams.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewExamResponseSlice(exams), nil
}
