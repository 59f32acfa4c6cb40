package models

import "time"

// Result is the per-student outcome of an exam, derived from questions and
// answers at publish time. One row per (exam, student).
type Result struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ExamID        uint      `gorm:"not null;uniqueIndex:idx_exam_result" json:"exam_id"`
	StudentID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_exam_result" json:"student_id"`
	TotalMarks    int       `gorm:"not null" json:"total_marks"`
	ObtainedMarks int       `gorm:"not null" json:"obtained_marks"`
	Percentage    float64   `gorm:"not null" json:"percentage"`
	Published     bool      `gorm:"not null;default:false" json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Exam          Exam      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"exam,omitempty"`
	Student       Profile   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
