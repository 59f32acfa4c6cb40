package models

import "time"

// Exam status lifecycle values.
const (
	ExamStatusDraft     = "draft"
	ExamStatusActive    = "active"
	ExamStatusCompleted = "completed"
)

// ValidExamStatus reports whether the given status is a known lifecycle value.
func ValidExamStatus(status string) bool {
	switch status {
	case ExamStatusDraft, ExamStatusActive, ExamStatusCompleted:
		return true
	default:
		return false
	}
}

// Exam is a scheduled assessment owned by the teacher that created it.
type Exam struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	TeacherID       string     `gorm:"type:uuid;index;not null" json:"teacher_id"`
	ScheduledStart  *time.Time `json:"scheduled_start"`
	ScheduledEnd    *time.Time `json:"scheduled_end"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	Status          string     `gorm:"size:32;not null" json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Teacher         Profile    `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// ExamStudent assigns a student to an exam. Existence of a row is what
// entitles the student to view and take the exam.
type ExamStudent struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ExamID    uint   `gorm:"not null;uniqueIndex:idx_exam_student" json:"exam_id"`
	StudentID string `gorm:"type:uuid;not null;uniqueIndex:idx_exam_student" json:"student_id"`
}
