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

// SubmissionService is the student-facing surface: assigned exams, their
// questions, answer submission, and published results.
type SubmissionService interface {
	AssignedExams(ctx context.Context, studentID string) ([]dto.ExamResponse, error)
	Questions(ctx context.Context, studentID string, examID uint) ([]dto.QuestionResponse, error)
	Submit(ctx context.Context, studentID string, examID uint, payload dto.SubmitAnswerRequest, file *multipart.FileHeader) (dto.AnswerResponse, error)
	MyAnswers(ctx context.Context, studentID string, examID uint) ([]dto.AnswerResponse, error)
	MyResults(ctx context.Context, studentID string) ([]dto.ResultResponse, error)
}

type submissionService struct {
	exams       repository.ExamRepository
	assignments repository.ExamStudentRepository
	questions   repository.QuestionRepository
	answers     repository.AnswerRepository
	results     repository.ResultRepository
	validator   *validator.Validate
	uploader    FileUploader
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(exams repository.ExamRepository, assignments repository.ExamStudentRepository, questions repository.QuestionRepository, answers repository.AnswerRepository, results repository.ResultRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		exams:       exams,
		assignments: assignments,
		questions:   questions,
		answers:     answers,
		results:     results,
		validator:   validate,
		uploader:    uploader,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) AssignedExams(ctx context.Context, studentID string) ([]dto.ExamResponse, error) {
	examIDs, err := s.assignments.ExamIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	exams, err := s.exams.ListByIDs(ctx, examIDs)
	if err != nil {
		return nil, err
	}

	return dto.NewExamResponseSlice(exams), nil
}

// requireAssignment enforces the roster gate: no ExamStudent row, no access.
func (s *submissionService) requireAssignment(ctx context.Context, examID uint, studentID string) error {
	assigned, err := s.assignments.Exists(ctx, examID, studentID)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrNotAssigned
	}

	return nil
}

func (s *submissionService) Questions(ctx context.Context, studentID string, examID uint) ([]dto.QuestionResponse, error) {
	if err := s.requireAssignment(ctx, examID, studentID); err != nil {
		return nil, err
	}

	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

// Submit upserts the student's answer for a question. The row is keyed by
// (question_id, student_id): a repeated submission overwrites the previous
// one instead of duplicating it.
func (s *submissionService) Submit(ctx context.Context, studentID string, examID uint, payload dto.SubmitAnswerRequest, file *multipart.FileHeader) (dto.AnswerResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnswerResponse{}, err
	}

	if err := s.requireAssignment(ctx, examID, studentID); err != nil {
		return dto.AnswerResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, payload.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnswerResponse{}, ErrQuestionNotFound
		}
		return dto.AnswerResponse{}, err
	}
	if question.ExamID != examID {
		return dto.AnswerResponse{}, ErrQuestionNotFound
	}

	fileURL := ""
	if file != nil {
		url, err := uploadAttachment(ctx, s.uploader, storage.AnswerFilePath(examID, studentID, file.Filename), file)
		if err != nil {
			return dto.AnswerResponse{}, err
		}
		fileURL = url
	}

	answerText := s.sanitizer.Sanitize(payload.AnswerText)

	existing, err := s.answers.GetByQuestionAndStudent(ctx, payload.QuestionID, studentID)
	switch {
	case err == nil:
		existing.AnswerText = answerText
		existing.AnswerFileURL = fileURL
		if err := s.answers.Update(ctx, &existing); err != nil {
			return dto.AnswerResponse{}, err
		}
		s.logger.Info().Uint("answer_id", existing.ID).Msg("answer updated")
		return dto.NewAnswerResponse(existing), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		answer := models.Answer{
			QuestionID:    payload.QuestionID,
			StudentID:     studentID,
			AnswerText:    answerText,
			AnswerFileURL: fileURL,
		}
		if err := s.answers.Create(ctx, &answer); err != nil {
			return dto.AnswerResponse{}, err
		}
		s.logger.Info().Uint("answer_id", answer.ID).Msg("answer submitted")
		return dto.NewAnswerResponse(answer), nil
	default:
		return dto.AnswerResponse{}, err
	}
}

func (s *submissionService) MyAnswers(ctx context.Context, studentID string, examID uint) ([]dto.AnswerResponse, error) {
	questionIDs, err := s.questions.IDsByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListByQuestionsAndStudent(ctx, questionIDs, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewAnswerResponseSlice(answers), nil
}

func (s *submissionService) MyResults(ctx context.Context, studentID string) ([]dto.ResultResponse, error) {
	results, err := s.results.ListPublishedByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewResultResponseSlice(results), nil
}
