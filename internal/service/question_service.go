package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
	"github.com/examconnect/exam-api/pkg/storage"
)

// QuestionService manages exam questions and their attachments.
type QuestionService interface {
	ListByExam(ctx context.Context, examID uint) ([]dto.QuestionResponse, error)
	Add(ctx context.Context, examID uint, payload dto.QuestionCreateRequest, file *multipart.FileHeader) (dto.QuestionResponse, error)
}

type questionService struct {
	questions repository.QuestionRepository
	exams     repository.ExamRepository
	validator *validator.Validate
	uploader  FileUploader
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questions repository.QuestionRepository, exams repository.ExamRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		exams:     exams,
		validator: validate,
		uploader:  uploader,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) ListByExam(ctx context.Context, examID uint) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Add(ctx context.Context, examID uint, payload dto.QuestionCreateRequest, file *multipart.FileHeader) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrExamNotFound
		}
		return dto.QuestionResponse{}, err
	}

	fileURL := ""
	if file != nil {
		url, err := uploadAttachment(ctx, s.uploader, storage.QuestionFilePath(examID, file.Filename), file)
		if err != nil {
			return dto.QuestionResponse{}, err
		}
		fileURL = url
	}

	question := models.Question{
		ExamID:          examID,
		QuestionText:    s.sanitizer.Sanitize(payload.QuestionText),
		QuestionFileURL: fileURL,
		Marks:           payload.Marks,
		OrderIndex:      payload.OrderIndex,
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Uint("question_id", question.ID).Uint("exam_id", examID).Msg("question added")

	return dto.NewQuestionResponse(question), nil
}
