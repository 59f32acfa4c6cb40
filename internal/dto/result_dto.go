package dto

import "github.com/examconnect/exam-api/internal/models"

// ExamLite summarizes the exam in result responses.
type ExamLite struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ResultResponse serializes a published or computed result.
type ResultResponse struct {
	ID            uint         `json:"id"`
	ExamID        uint         `json:"exam_id"`
	StudentID     string       `json:"student_id"`
	TotalMarks    int          `json:"total_marks"`
	ObtainedMarks int          `json:"obtained_marks"`
	Percentage    float64      `json:"percentage"`
	Published     bool         `json:"published"`
	Student       *StudentLite `json:"student,omitempty"`
	Exam          *ExamLite    `json:"exam,omitempty"`
}

// PublishResultsResponse wraps the outcome of publishing an exam's results.
type PublishResultsResponse struct {
	Message string           `json:"message"`
	Results []ResultResponse `json:"results"`
}

// NewResultResponse converts a Result model into a DTO.
func NewResultResponse(model models.Result) ResultResponse {
	response := ResultResponse{
		ID:            model.ID,
		ExamID:        model.ExamID,
		StudentID:     model.StudentID,
		TotalMarks:    model.TotalMarks,
		ObtainedMarks: model.ObtainedMarks,
		Percentage:    model.Percentage,
		Published:     model.Published,
	}

	if model.Student.ID != "" {
		response.Student = &StudentLite{Name: model.Student.Name, Email: model.Student.Email}
	}

	if model.Exam.ID != 0 {
		response.Exam = &ExamLite{Title: model.Exam.Title, Description: model.Exam.Description}
	}

	return response
}

// NewResultResponseSlice converts results into DTOs.
func NewResultResponseSlice(results []models.Result) []ResultResponse {
	responses := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewResultResponse(result))
	}
	return responses
}
