package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/internal/pages"
	"github.com/ndc-explorer/backend/pkg/logger"
)

type CountriesHandler struct {
	pages *pages.Service
}

func NewCountriesHandler(pageService *pages.Service) *CountriesHandler {
	return &CountriesHandler{
		pages: pageService,
	}
}

// ListCountries serves GET /api/v1/countries. The optional filter parameter
// narrows the list by case-insensitive substring match on the country id.
func (h *CountriesHandler) ListCountries(c *fiber.Ctx) error {
	filter := c.Query("filter")

	view, err := h.pages.Countries(c.Context(), filter)
	if err != nil {
		logger.Error("Failed to build countries page", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load countries",
		})
	}

	return c.JSON(view)
}

// GetCountry serves GET /api/v1/countries/:countryId. The optional filter
// parameter narrows the answers tab only.
func (h *CountriesHandler) GetCountry(c *fiber.Ctx) error {
	countryID := c.Params("countryId")
	if countryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Country id is required",
		})
	}

	view, err := h.pages.CountryDetail(c.Context(), countryID, c.Query("filter"))
	if err != nil {
		logger.Error("Failed to build country detail page",
			zap.String("country", countryID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load country data",
		})
	}

	return c.JSON(view)
}
