package server

import (
	"github.com/gofiber/fiber/v2"

	"foundling/internal/models"
)

// GoogleLogin handles POST /api/auth/google. The Google ID token arrives as
// the "token" field, either as form data or JSON.
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token" form:"token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Token == "" {
		req.Token = c.FormValue("token")
	}

	result, err := s.authService.Login(c.Context(), req.Token)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
