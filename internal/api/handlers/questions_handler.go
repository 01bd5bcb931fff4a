package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/internal/pages"
	"github.com/ndc-explorer/backend/internal/storage"
	"github.com/ndc-explorer/backend/pkg/logger"
)

type QuestionsHandler struct {
	pages *pages.Service
}

func NewQuestionsHandler(pageService *pages.Service) *QuestionsHandler {
	return &QuestionsHandler{
		pages: pageService,
	}
}

// ListQuestions serves GET /api/v1/questions.
func (h *QuestionsHandler) ListQuestions(c *fiber.Ctx) error {
	view, err := h.pages.Questions(c.Context())
	if err != nil {
		logger.Error("Failed to build questions page", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load questions",
		})
	}

	return c.JSON(view)
}

// GetQuestion serves GET /api/v1/questions/:questionId. An id that matches
// no question yields 404; an ambiguous match is a server error.
func (h *QuestionsHandler) GetQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question id must be an integer",
		})
	}

	view, err := h.pages.QuestionDetail(c.Context(), questionID, c.Query("filter"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		logger.Error("Failed to build question detail page",
			zap.Int("question_id", questionID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load question data",
		})
	}

	return c.JSON(view)
}
