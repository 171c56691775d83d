package server

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"foundling/internal/models"
	"foundling/internal/service"
)

// CreateLostItem handles POST /api/items/lost. Reports arrive as multipart
// form data so photos can ride along in the "images" field.
func (s *Server) CreateLostItem(c *fiber.Ctx) error {
	in := service.ReportItemInput{
		UserID:      currentUserID(c),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		CategoryID:  c.FormValue("category_id"),
		Location:    c.FormValue("location"),
		DateLost:    c.FormValue("date_lost"),
		ContactInfo: c.FormValue("contact_info"),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fileHeader := range form.File["images"] {
			file, err := fileHeader.Open()
			if err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationErrorWrap("Unreadable image upload", err))
			}
			raw, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationErrorWrap("Unreadable image upload", err))
			}
			in.Images = append(in.Images, raw)
		}
	}

	item, err := s.itemService.Report(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetLostItems handles GET /api/items/lost
func (s *Server) GetLostItems(c *fiber.Ctx) error {
	pagination := parsePagination(c)
	filter := models.ItemFilter{
		Category: c.Query("category"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}

	page, err := s.itemService.Browse(c.Context(), filter, pagination.Page, pagination.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

// GetLostItem handles GET /api/items/lost/:id
func (s *Server) GetLostItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	item, err := s.itemService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(item)
}

// UpdateItemStatus handles PATCH /api/items/lost/:id/status
func (s *Server) UpdateItemStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.itemService.UpdateStatus(c.Context(), currentUserID(c), id, req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(item)
}
