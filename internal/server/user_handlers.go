package server

import (
	"pawprints/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/users/me and returns the caller's account together
// with their recent posts.
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	profile, err := s.userService.GetProfile(c.Context(), user.Username)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}

// GetProfile handles GET /api/users/:username/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, err := s.userService.GetProfile(c.Context(), username)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}

// ChangeUsername handles PUT /api/users/me/username. The new name is applied
// to the account and to every existing post in one step, and the response
// includes a fresh session token since the old one carries the stale name.
func (s *Server) ChangeUsername(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Rename(c.Context(), userID, req.Username)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	token, err := s.sessions.IssueSession(user.ID, user.Username, true)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
