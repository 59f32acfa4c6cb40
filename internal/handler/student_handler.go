package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/middleware"
	"github.com/examconnect/exam-api/internal/service"
	"github.com/examconnect/exam-api/internal/utils"
)

// StudentHandler serves the student surface: assigned exams, taking an exam,
// and published results.
type StudentHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewStudentHandler builds a student handler instance.
func NewStudentHandler(service service.SubmissionService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the student routes to the provided router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/exams", h.listExams)
	router.Get("/exams/:id/questions", h.listQuestions)
	router.Post("/exams/:id/submit", h.submitAnswer)
	router.Get("/exams/:id/my-answers", h.myAnswers)
	router.Get("/results", h.myResults)
}

func (h *StudentHandler) principal(c *fiber.Ctx) (string, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return "", utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	return principal.ID, nil
}

func (h *StudentHandler) listExams(c *fiber.Ctx) error {
	studentID, err := h.principal(c)
	if err != nil {
		return err
	}

	exams, err := h.service.AssignedExams(c.Context(), studentID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, exams)
}

func (h *StudentHandler) listQuestions(c *fiber.Ctx) error {
	studentID, err := h.principal(c)
	if err != nil {
		return err
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questions, err := h.service.Questions(c.Context(), studentID, examID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, questions)
}

func (h *StudentHandler) submitAnswer(c *fiber.Ctx) error {
	studentID, err := h.principal(c)
	if err != nil {
		return err
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questionID, err := parseFormUint(c, "question_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.SubmitAnswerRequest{
		QuestionID: questionID,
		AnswerText: c.FormValue("answer_text"),
	}

	answer, err := h.service.Submit(c.Context(), studentID, examID, payload, optionalFormFile(c, "answer_file"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusCreated, answer)
}

func (h *StudentHandler) myAnswers(c *fiber.Ctx) error {
	studentID, err := h.principal(c)
	if err != nil {
		return err
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	answers, err := h.service.MyAnswers(c.Context(), studentID, examID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, answers)
}

func (h *StudentHandler) myResults(c *fiber.Ctx) error {
	studentID, err := h.principal(c)
	if err != nil {
		return err
	}

	results, err := h.service.MyResults(c.Context(), studentID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, results)
}
