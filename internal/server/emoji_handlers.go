package server

import (
	"pawprints/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetEmojis handles GET /api/emojis by proxying the upstream catalog.
func (s *Server) GetEmojis(c *fiber.Ctx) error {
	body, err := s.emojiService.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
