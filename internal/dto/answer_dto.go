package dto

import (
	"time"

	"github.com/examconnect/exam-api/internal/models"
)

// SubmitAnswerRequest describes the multipart payload for submitting an answer.
type SubmitAnswerRequest struct {
	QuestionID uint   `form:"question_id" validate:"required,gt=0"`
	AnswerText string `form:"answer_text"`
}

// MarkAnswerRequest assigns marks and feedback to an answer.
type MarkAnswerRequest struct {
	ObtainedMarks int    `json:"obtained_marks" validate:"gte=0"`
	Feedback      string `json:"feedback"`
}

// StudentLite summarizes the submitting student in answer and result responses.
type StudentLite struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AnswerResponse serializes an answer for API clients.
type AnswerResponse struct {
	ID            uint         `json:"id"`
	QuestionID    uint         `json:"question_id"`
	StudentID     string       `json:"student_id"`
	AnswerText    string       `json:"answer_text"`
	AnswerFileURL string       `json:"answer_file_url"`
	ObtainedMarks *int         `json:"obtained_marks"`
	Feedback      string       `json:"feedback"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Student       *StudentLite `json:"student,omitempty"`
}

// NewAnswerResponse converts an Answer model into a DTO.
func NewAnswerResponse(model models.Answer) AnswerResponse {
	response := AnswerResponse{
		ID:            model.ID,
		QuestionID:    model.QuestionID,
		StudentID:     model.StudentID,
		AnswerText:    model.AnswerText,
		AnswerFileURL: model.AnswerFileURL,
		ObtainedMarks: model.ObtainedMarks,
		Feedback:      model.Feedback,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}

	if model.Student.ID != "" {
		response.Student = &StudentLite{Name: model.Student.Name, Email: model.Student.Email}
	}

	return response
}

// NewAnswerResponseSlice converts answers into DTOs.
func NewAnswerResponseSlice(answers []models.Answer) []AnswerResponse {
	responses := make([]AnswerResponse, 0, len(answers))
	for _, answer := range answers {
		responses = append(responses, NewAnswerResponse(answer))
	}
	return responses
}
