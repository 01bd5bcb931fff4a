package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Config bounds the free-text inputs the API accepts. Every endpoint is a
// read, so validation only concerns the filter and search term parameters.
type Config struct {
	MaxTermLength int
	Logger        *zap.Logger
}

// Middleware rejects oversized or malformed text parameters before they
// reach a page controller. Terms are matched as literal substrings
// downstream, so no content beyond size and control characters needs
// rejecting here.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxTermLength == 0 {
		cfg.MaxTermLength = 200
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		for _, param := range []string{"q", "filter"} {
			value := c.Query(param)
			if value == "" {
				continue
			}

			if len(value) > cfg.MaxTermLength {
				cfg.Logger.Warn("Rejected oversized query parameter",
					zap.String("param", param),
					zap.Int("length", len(value)),
					zap.String("ip", c.IP()),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Search term exceeds maximum length",
				})
			}

			if containsControlChars(value) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Search term contains invalid characters",
				})
			}
		}

		return c.Next()
	}
}

func containsControlChars(input string) bool {
	return strings.ContainsFunc(input, func(r rune) bool {
		return r < 0x20 && r != '\t'
	})
}
