package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/middleware"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/service"
	"github.com/examconnect/exam-api/internal/utils"
)

// TeacherHandler serves the teacher surface: the student roster, exam
// authoring, questions, marking, and result publishing.
type TeacherHandler struct {
	users     service.UserService
	exams     service.ExamService
	questions service.QuestionService
	grading   service.GradingService
	logger    zerolog.Logger
}

// NewTeacherHandler builds a teacher handler instance.
func NewTeacherHandler(users service.UserService, exams service.ExamService, questions service.QuestionService, grading service.GradingService, logger zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		users:     users,
		exams:     exams,
		questions: questions,
		grading:   grading,
		logger:    logger.With().Str("component", "teacher_handler").Logger(),
	}
}

// Register attaches the teacher routes to the provided router group.
func (h *TeacherHandler) Register(router fiber.Router) {
	router.Get("/students", h.listStudents)
	router.Post("/students", h.addStudent)
	router.Delete("/students/:id", h.removeStudent)

	router.Get("/exams", h.listExams)
	router.Post("/exams", h.createExam)
	router.Get("/exams/:id", h.getExam)
	router.Put("/exams/:id", h.updateExam)
	router.Delete("/exams/:id", h.deleteExam)
	router.Post("/exams/:id/students", h.assignStudents)

	router.Get("/exams/:id/questions", h.listQuestions)
	router.Post("/exams/:id/questions", h.addQuestion)

	router.Get("/exams/:id/answers", h.listAnswers)
	router.Put("/answers/:id/mark", h.markAnswer)

	router.Get("/exams/:id/results", h.listResults)
	router.Post("/exams/:id/publish-results", h.publishResults)
}

func (h *TeacherHandler) principal(c *fiber.Ctx) (string, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return "", utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	return principal.ID, nil
}

func (h *TeacherHandler) listStudents(c *fiber.Ctx) error {
	students, err := h.users.ListStudents(c.Context())
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, students)
}

func (h *TeacherHandler) addStudent(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.Role = models.RoleStudent

	student, err := h.users.Create(c.Context(), payload, models.RoleStudent)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendMessage(c, fiber.StatusCreated, "student created", student)
}

func (h *TeacherHandler) removeStudent(c *fiber.Ctx) error {
	if err := h.users.DeleteStudent(c.Context(), c.Params("id")); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "student removed", nil)
}

func (h *TeacherHandler) listExams(c *fiber.Ctx) error {
	teacherID, err := h.principal(c)
	if err != nil {
		return err
	}

	exams, err := h.exams.ListByTeacher(c.Context(), teacherID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, exams)
}

func (h *TeacherHandler) createExam(c *fiber.Ctx) error {
	teacherID, err := h.principal(c)
	if err != nil {
		return err
	}

	var payload dto.ExamCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exam, err := h.exams.Create(c.Context(), teacherID, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusCreated, exam)
}

func (h *TeacherHandler) getExam(c *fiber.Ctx) error {
	teacherID, err := h.principal(c)
	if err != nil {
		return err
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	exam, err := h.exams.Get(c.Context(), teacherID, examID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, exam)
}

func (h *TeacherHandler) updateExam(c *fiber.Ctx) error {
	teacherID, err := h.principal(c)
	if err != nil {
		return err
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ExamUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exam, err := h.exams.Update(c.Context(), teacherID, examID, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, exam)
}

func (h *TeacherHandler) deleteExam(c *fiber.Ctx) error {
	teacherID, err := h.principal(c)
	if err != nil {
		return err
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.exams.Delete(c.Context(), teacherID, examID); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "exam deleted", nil)
}

func (h *TeacherHandler) assignStudents(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AssignStudentsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assigned, err := h.exams.AssignStudents(c.Context(), examID, payload.StudentIDs)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendMessage(c, fiber.StatusCreated, fmt.Sprintf("%d students assigned", assigned), nil)
}

func (h *TeacherHandler) listQuestions(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questions, err := h.questions.ListByExam(c.Context(), examID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, questions)
}

func (h *TeacherHandler) addQuestion(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	marks, err := parseFormInt(c, "marks", 10)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	orderIndex, err := parseFormInt(c, "order_index", 0)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.QuestionCreateRequest{
		QuestionText: c.FormValue("question_text"),
		Marks:        marks,
		OrderIndex:   orderIndex,
	}

	question, err := h.questions.Add(c.Context(), examID, payload, optionalFormFile(c, "question_file"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusCreated, question)
}

func (h *TeacherHandler) listAnswers(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	answers, err := h.grading.AnswersByExam(c.Context(), examID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, answers)
}

func (h *TeacherHandler) markAnswer(c *fiber.Ctx) error {
	answerID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MarkAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	answer, err := h.grading.Mark(c.Context(), answerID, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, answer)
}

func (h *TeacherHandler) listResults(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	results, err := h.grading.ResultsByExam(c.Context(), examID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, results)
}

func (h *TeacherHandler) publishResults(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	results, err := h.grading.Publish(c.Context(), examID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, dto.PublishResultsResponse{
		Message: "Results published",
		Results: results,
	})
}
