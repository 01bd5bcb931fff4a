package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/internal/pages"
	"github.com/ndc-explorer/backend/pkg/logger"
)

type StatsHandler struct {
	pages *pages.Service
}

func NewStatsHandler(pageService *pages.Service) *StatsHandler {
	return &StatsHandler{
		pages: pageService,
	}
}

// GetStats serves GET /api/v1/stats with the landing page figures.
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	view, err := h.pages.Stats(c.Context())
	if err != nil {
		logger.Error("Failed to build stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load catalog stats",
		})
	}

	return c.JSON(view)
}
