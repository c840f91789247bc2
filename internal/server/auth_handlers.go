package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"pawprints/internal/models"
	"pawprints/internal/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

// googleUserInfoURL is the OpenID Connect userinfo endpoint; the sub field
// is the stable provider subject id.
var googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleLogin handles GET /api/auth/google. It sends the browser to the
// provider's consent screen with a state nonce bound to a cookie.
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	if s.oauth == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewUpstreamError("google", fmt.Errorf("OAuth is not configured")))
	}

	state := uuid.New().String()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(s.oauth.AuthCodeURL(state), fiber.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback. A known identity gets
// a session token; an unknown one gets a registration token and has to pick
// a username before an account exists.
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if s.oauth == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewUpstreamError("google", fmt.Errorf("OAuth is not configured")))
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("OAuth state mismatch"))
	}
	c.ClearCookie(oauthStateCookie)

	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("missing authorization code"))
	}

	subject, err := s.fetchGoogleSubject(c.Context(), code)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	result, err := s.identityService.Resolve(c.Context(), subject)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if result.User == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"registration_required": true,
			"registration_token":    result.RegistrationToken,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": result.SessionToken,
		"user":  result.User,
	})
}

// fetchGoogleSubject exchanges the authorization code and reads the provider
// subject id from the userinfo endpoint.
func (s *Server) fetchGoogleSubject(ctx context.Context, code string) (string, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", models.NewUpstreamError("google", err)
	}

	resp, err := s.oauth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return "", models.NewUpstreamError("google", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		return "", models.NewUpstreamError("google", fmt.Errorf("userinfo returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", models.NewUpstreamError("google", err)
	}

	var info struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(body, &info); err != nil || info.Sub == "" {
		return "", models.NewUpstreamError("google", fmt.Errorf("userinfo response missing subject"))
	}
	return info.Sub, nil
}

// Register handles POST /api/auth/register. It turns a registration token
// plus a chosen username into an account and a session.
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		RegistrationToken string `json:"registration_token"`
		Username          string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RegistrationToken == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("registration_token is required"))
	}

	user, token, err := s.identityService.Register(c.Context(), req.RegistrationToken, req.Username)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout by revoking the session's jti.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("sessionClaims").(*sessions.SessionClaims)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	if err := s.identityService.Logout(c.Context(), claims); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out",
	})
}
