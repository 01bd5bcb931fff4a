package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/internal/pages"
	"github.com/ndc-explorer/backend/pkg/logger"
)

type SearchHandler struct {
	pages *pages.Service
}

func NewSearchHandler(pageService *pages.Service) *SearchHandler {
	return &SearchHandler{
		pages: pageService,
	}
}

// Search serves GET /api/v1/search?q=term. The q parameter is the persisted,
// shareable search term. An empty or whitespace-only term issues no queries
// and reports started=false.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	term := c.Query("q")

	view, err := h.pages.Search(c.Context(), term)
	if err != nil {
		logger.Error("Search request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "There was an error performing your search. Please try again.",
		})
	}

	return c.JSON(view)
}
