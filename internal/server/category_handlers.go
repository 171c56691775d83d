package server

import (
	"github.com/gofiber/fiber/v2"

	"foundling/internal/models"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"categories": models.Categories(),
	})
}
