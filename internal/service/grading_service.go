package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
)

const resultsPublishedSubject = "examconnect.results.published"

// GradingService covers the teacher-side marking workflow and the publish
// operation that freezes per-student results.
type GradingService interface {
	AnswersByExam(ctx context.Context, examID uint) ([]dto.AnswerResponse, error)
	Mark(ctx context.Context, answerID uint, payload dto.MarkAnswerRequest) (dto.AnswerResponse, error)
	ResultsByExam(ctx context.Context, examID uint) ([]dto.ResultResponse, error)
	Publish(ctx context.Context, examID uint) ([]dto.ResultResponse, error)
}

type gradingService struct {
	exams       repository.ExamRepository
	questions   repository.QuestionRepository
	assignments repository.ExamStudentRepository
	answers     repository.AnswerRepository
	results     repository.ResultRepository
	validator   *validator.Validate
	events      *nats.Conn
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewGradingService constructs a GradingService. The NATS connection may be
// nil; publish events are then skipped.
func NewGradingService(exams repository.ExamRepository, questions repository.QuestionRepository, assignments repository.ExamStudentRepository, answers repository.AnswerRepository, results repository.ResultRepository, validate *validator.Validate, events *nats.Conn, logger zerolog.Logger) GradingService {
	return &gradingService{
		exams:       exams,
		questions:   questions,
		assignments: assignments,
		answers:     answers,
		results:     results,
		validator:   validate,
		events:      events,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "grading_service").Logger(),
		tracer:      otel.Tracer("github.com/examconnect/exam-api/internal/service/grading"),
	}
}

func (s *gradingService) AnswersByExam(ctx context.Context, examID uint) ([]dto.AnswerResponse, error) {
	questionIDs, err := s.questions.IDsByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListByQuestions(ctx, questionIDs)
	if err != nil {
		return nil, err
	}

	return dto.NewAnswerResponseSlice(answers), nil
}

// Mark records the obtained marks and feedback for an answer. Marks beyond
// the question's maximum are rejected rather than clamped.
func (s *gradingService) Mark(ctx context.Context, answerID uint, payload dto.MarkAnswerRequest) (dto.AnswerResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnswerResponse{}, err
	}

	answer, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnswerResponse{}, ErrAnswerNotFound
		}
		return dto.AnswerResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, answer.QuestionID)
	if err != nil {
		return dto.AnswerResponse{}, err
	}
	if payload.ObtainedMarks > question.Marks {
		return dto.AnswerResponse{}, ErrMarksOutOfRange
	}

	obtained := payload.ObtainedMarks
	answer.ObtainedMarks = &obtained
	answer.Feedback = s.sanitizer.Sanitize(payload.Feedback)

	if err := s.answers.Update(ctx, &answer); err != nil {
		return dto.AnswerResponse{}, err
	}

	s.logger.Info().Uint("answer_id", answerID).Int("obtained_marks", obtained).Msg("answer marked")

	return dto.NewAnswerResponse(answer), nil
}

func (s *gradingService) ResultsByExam(ctx context.Context, examID uint) ([]dto.ResultResponse, error) {
	results, err := s.results.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	return dto.NewResultResponseSlice(results), nil
}

// Publish aggregates per-question marks into one result per roster student,
// writes them atomically, and marks the exam completed. Missing and ungraded
// answers count as zero; a zero-mark exam yields zero percentages.
func (s *gradingService) Publish(ctx context.Context, examID uint) ([]dto.ResultResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "results.publish", trace.WithAttributes(
		attribute.Int("exam.id", int(examID)),
	))
	defer span.End()

	if _, err := s.exams.GetByID(spanCtx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	questions, err := s.questions.ListByExam(spanCtx, examID)
	if err != nil {
		return nil, err
	}

	totalMarks := 0
	questionIDs := make([]uint, 0, len(questions))
	for _, question := range questions {
		totalMarks += question.Marks
		questionIDs = append(questionIDs, question.ID)
	}

	roster, err := s.assignments.ListByExam(spanCtx, examID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListByQuestions(spanCtx, questionIDs)
	if err != nil {
		return nil, err
	}

	obtainedByStudent := make(map[string]int, len(roster))
	for _, answer := range answers {
		if answer.ObtainedMarks != nil {
			obtainedByStudent[answer.StudentID] += *answer.ObtainedMarks
		}
	}

	computed := make([]models.Result, 0, len(roster))
	for _, assignment := range roster {
		obtained := obtainedByStudent[assignment.StudentID]

		percentage := 0.0
		if totalMarks > 0 {
			percentage = roundPercentage(float64(obtained) / float64(totalMarks) * 100)
		}

		computed = append(computed, models.Result{
			ExamID:        examID,
			StudentID:     assignment.StudentID,
			TotalMarks:    totalMarks,
			ObtainedMarks: obtained,
			Percentage:    percentage,
			Published:     true,
		})
	}

	saved, err := s.results.PublishAll(spanCtx, examID, computed)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("results.count", len(saved)))
	s.logger.Info().Uint("exam_id", examID).Int("students", len(saved)).Msg("results published")

	s.emitPublished(examID, len(saved))

	return dto.NewResultResponseSlice(saved), nil
}

// resultsPublishedEvent is the payload emitted after a successful publish.
type resultsPublishedEvent struct {
	ExamID      uint      `json:"exam_id"`
	Students    int       `json:"students"`
	PublishedAt time.Time `json:"published_at"`
}

func (s *gradingService) emitPublished(examID uint, students int) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(resultsPublishedEvent{
		ExamID:      examID,
		Students:    students,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}

	if err := s.events.Publish(resultsPublishedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish results event")
	}
}

func roundPercentage(value float64) float64 {
	return math.Round(value*100) / 100
}
