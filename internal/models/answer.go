package models

import "time"

// Answer holds a student's submission for a single question. The unique
// index enforces one answer per (question, student); submission is an upsert.
type Answer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuestionID    uint      `gorm:"not null;uniqueIndex:idx_question_student" json:"question_id"`
	StudentID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_question_student" json:"student_id"`
	AnswerText    string    `gorm:"type:text" json:"answer_text"`
	AnswerFileURL string    `gorm:"size:512" json:"answer_file_url"`
	ObtainedMarks *int      `json:"obtained_marks"`
	Feedback      string    `gorm:"type:text" json:"feedback"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Question      Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"question,omitempty"`
	Student       Profile   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// IsGraded reports whether a teacher has marked this answer.
func (a Answer) IsGraded() bool {
	return a.ObtainedMarks != nil
}
