package server

import (
	"github.com/gofiber/fiber/v2"

	"foundling/internal/models"
	"foundling/internal/service"
)

// SendMessage handles POST /api/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		ReceiverID uint   `json:"receiver_id" form:"receiver_id"`
		ItemID     uint   `json:"item_id" form:"item_id"`
		Content    string `json:"content" form:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.messageService.Send(c.Context(), service.SendMessageInput{
		SenderID:   currentUserID(c),
		ReceiverID: req.ReceiverID,
		ItemID:     req.ItemID,
		Content:    req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversations handles GET /api/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	conversations, err := s.messageService.Conversations(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"conversations": conversations,
	})
}
