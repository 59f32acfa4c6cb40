package dto

import "github.com/examconnect/exam-api/internal/models"

// QuestionCreateRequest describes the multipart payload for adding a question.
type QuestionCreateRequest struct {
	QuestionText string `form:"question_text" validate:"required,min=1"`
	Marks        int    `form:"marks" validate:"required,gt=0"`
	OrderIndex   int    `form:"order_index" validate:"gte=0"`
}

// QuestionResponse serializes a question for API clients.
type QuestionResponse struct {
	ID              uint   `json:"id"`
	ExamID          uint   `json:"exam_id"`
	QuestionText    string `json:"question_text"`
	QuestionFileURL string `json:"question_file_url"`
	Marks           int    `json:"marks"`
	OrderIndex      int    `json:"order_index"`
}

// NewQuestionResponse converts a Question model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	return QuestionResponse{
		ID:              model.ID,
		ExamID:          model.ExamID,
		QuestionText:    model.QuestionText,
		QuestionFileURL: model.QuestionFileURL,
		Marks:           model.Marks,
		OrderIndex:      model.OrderIndex,
	}
}

// NewQuestionResponseSlice converts questions into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}
	return responses
}
