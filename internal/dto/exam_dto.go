package dto

import (
	"time"

	"github.com/examconnect/exam-api/internal/models"
)

// ExamCreateRequest creates an exam, optionally assigning students up front.
type ExamCreateRequest struct {
	Title           string     `json:"title" validate:"required,min=2"`
	Description     string     `json:"description"`
	ScheduledStart  *time.Time `json:"scheduled_start"`
	ScheduledEnd    *time.Time `json:"scheduled_end"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,gt=0"`
	Status          string     `json:"status" validate:"omitempty,oneof=draft active completed"`
	StudentIDs      []string   `json:"student_ids" validate:"omitempty,dive,uuid"`
}

// ExamUpdateRequest carries the partial fields a teacher may change.
type ExamUpdateRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=2"`
	Description     *string    `json:"description"`
	ScheduledStart  *time.Time `json:"scheduled_start"`
	ScheduledEnd    *time.Time `json:"scheduled_end"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0"`
	Status          *string    `json:"status" validate:"omitempty,oneof=draft active completed"`
}

// AssignStudentsRequest adds students to an exam roster.
type AssignStudentsRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,uuid"`
}

// TeacherLite summarizes the owning teacher in exam responses.
type TeacherLite struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ExamResponse serializes an exam for API clients.
type ExamResponse struct {
	ID              uint         `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	TeacherID       string       `json:"teacher_id"`
	ScheduledStart  *time.Time   `json:"scheduled_start"`
	ScheduledEnd    *time.Time   `json:"scheduled_end"`
	DurationMinutes int          `json:"duration_minutes"`
	Status          string       `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	Teacher         *TeacherLite `json:"teacher,omitempty"`
}

// NewExamResponse converts an Exam model into a DTO.
func NewExamResponse(model models.Exam) ExamResponse {
	response := ExamResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		TeacherID:       model.TeacherID,
		ScheduledStart:  model.ScheduledStart,
		ScheduledEnd:    model.ScheduledEnd,
		DurationMinutes: model.DurationMinutes,
		Status:          model.Status,
		CreatedAt:       model.CreatedAt,
	}

	if model.Teacher.ID != "" {
		response.Teacher = &TeacherLite{Name: model.Teacher.Name, Email: model.Teacher.Email}
	}

	return response
}

// NewExamResponseSlice converts exams into DTOs.
func NewExamResponseSlice(exams []models.Exam) []ExamResponse {
	responses := make([]ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamResponse(exam))
	}
	return responses
}
