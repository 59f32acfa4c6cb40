package models

// Question belongs to an exam and carries the marks obtainable for it.
type Question struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ExamID          uint   `gorm:"index;not null" json:"exam_id"`
	QuestionText    string `gorm:"type:text" json:"question_text"`
	QuestionFileURL string `gorm:"size:512" json:"question_file_url"`
	Marks           int    `gorm:"not null" json:"marks"`
	OrderIndex      int    `gorm:"not null;default:0" json:"order_index"`
}
