package server

import (
	"bytes"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawprints/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	srv, app := newTestServer(t)
	_, token := registerUser(t, srv, app, "google-sub-1", "DogLover")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, fiber.Map{
		"title": "Maya", "content": "good dog", "pet_category": "dog",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	t.Run("known user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/DogLover/profile", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var profile struct {
			User  models.User   `json:"user"`
			Posts []models.Post `json:"posts"`
		}
		decodeBody(t, resp, &profile)
		assert.Equal(t, "DogLover", profile.User.Username)
		assert.Len(t, profile.Posts, 1)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/Ghost/profile", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestChangeUsername(t *testing.T) {
	srv, app := newTestServer(t)
	_, dogToken := registerUser(t, srv, app, "google-sub-1", "DogLover")
	registerUser(t, srv, app, "google-sub-2", "CatsRule")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", dogToken, fiber.Map{
		"title": "Maya", "content": "good dog", "pet_category": "dog",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	t.Run("rename moves authorship", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me/username", dogToken, fiber.Map{
			"username": "PuppyPal",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "PuppyPal", body.User.Username)
		assert.Equal(t, "/api/avatar/PuppyPal", body.User.AvatarRef)
		assert.NotEmpty(t, body.Token)

		// The old name no longer resolves; the posts follow the new one.
		r := doJSON(t, app, http.MethodGet, "/api/users/DogLover/profile", "", nil)
		assert.Equal(t, fiber.StatusNotFound, r.StatusCode)

		r = doJSON(t, app, http.MethodGet, "/api/users/PuppyPal/profile", "", nil)
		require.Equal(t, fiber.StatusOK, r.StatusCode)
		var profile struct {
			Posts []models.Post `json:"posts"`
		}
		decodeBody(t, r, &profile)
		require.Len(t, profile.Posts, 1)
		assert.Equal(t, "PuppyPal", profile.Posts[0].AuthorUsername)

		// The fresh token carries the new name and still authenticates.
		r = doJSON(t, app, http.MethodGet, "/api/users/me", body.Token, nil)
		assert.Equal(t, fiber.StatusOK, r.StatusCode)
	})

	t.Run("taken name conflicts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me/username", dogToken, fiber.Map{
			"username": "CatsRule",
		})
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("invalid name rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me/username", dogToken, fiber.Map{
			"username": "a",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("requires auth", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me/username", "", fiber.Map{
			"username": "Whatever",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetAvatar(t *testing.T) {
	_, app := newTestServer(t)

	t.Run("renders a PNG", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/avatar/DogLover", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, avatarSize, img.Bounds().Dx())
		assert.Equal(t, avatarSize, img.Bounds().Dy())
	})

	t.Run("deterministic per name", func(t *testing.T) {
		fetch := func(name string) []byte {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/avatar/"+name, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			return body
		}

		assert.Equal(t, fetch("DogLover"), fetch("DogLover"))
		// Same first letter renders the same image regardless of the rest.
		assert.Equal(t, fetch("DogLover"), fetch("Daisy"))
		assert.NotEqual(t, fetch("DogLover"), fetch("CatsRule"))
	})
}
