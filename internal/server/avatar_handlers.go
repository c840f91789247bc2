package server

import (
	"unicode"
	"unicode/utf8"

	"pawprints/internal/avatar"
	"pawprints/internal/models"
	"pawprints/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const avatarSize = 80

// GetAvatar handles GET /api/avatar/:username. The image is a pure function
// of the name's first letter, so it is generated on the fly rather than
// stored; only the serving path is recorded on the account.
func (s *Server) GetAvatar(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username is required"))
	}

	letter, _ := utf8.DecodeRuneInString(username)
	if letter == utf8.RuneError {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username is not valid UTF-8"))
	}
	letter = unicode.ToUpper(letter)

	png, err := avatar.Generate(letter, avatarSize, avatarSize)
	if err != nil {
		observability.AvatarRendersTotal.WithLabelValues("error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	observability.AvatarRendersTotal.WithLabelValues("ok").Inc()

	// Record the serving path on the account when the name resolves.
	// Unknown names still get an image.
	if user, lookupErr := s.userRepo.GetByUsername(c.Context(), username); lookupErr == nil {
		ref := "/api/avatar/" + user.Username
		if user.AvatarRef != ref {
			_ = s.userRepo.SetAvatarRef(c.Context(), user.ID, ref)
		}
	}

	c.Set(fiber.HeaderContentType, "image/png")
	// Same name always renders the same bytes.
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(png)
}
