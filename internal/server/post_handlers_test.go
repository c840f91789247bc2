package server

import (
	"net/http"
	"testing"

	"pawprints/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostLifecycle(t *testing.T) {
	srv, app := newTestServer(t)
	author, authorToken := registerUser(t, srv, app, "google-sub-1", "DogLover")
	_, otherToken := registerUser(t, srv, app, "google-sub-2", "CatsRule")

	t.Run("create", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts", authorToken, fiber.Map{
			"title":        "Maya at the park",
			"content":      "zoomies all afternoon",
			"pet_category": "dog",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var post models.Post
		decodeBody(t, resp, &post)
		assert.Equal(t, author.Username, post.AuthorUsername)
		assert.Zero(t, post.LikeCount)
		assert.NotZero(t, post.ID)
	})

	t.Run("create requires auth", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts", "", fiber.Map{
			"title": "x", "content": "y", "pet_category": "dog",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("create validates body", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts", authorToken, fiber.Map{
			"title": "", "content": "y", "pet_category": "dog",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list and fetch", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts?sort=recent", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var posts []models.Post
		decodeBody(t, resp, &posts)
		require.Len(t, posts, 1)

		resp = doJSON(t, app, http.MethodGet, "/api/posts/1", "", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/posts/999", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/posts/abc", "", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/posts?sort=hot", "", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("pet filter", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts?pet=dog", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var posts []models.Post
		decodeBody(t, resp, &posts)
		assert.Len(t, posts, 1)

		resp = doJSON(t, app, http.MethodGet, "/api/posts?pet=bird", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		decodeBody(t, resp, &posts)
		assert.Empty(t, posts)
	})

	t.Run("like", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/1/like", otherToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Likes int `json:"likes"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, 1, body.Likes)

		resp = doJSON(t, app, http.MethodPost, "/api/posts/1/like", authorToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		decodeBody(t, resp, &body)
		assert.Equal(t, 2, body.Likes)

		resp = doJSON(t, app, http.MethodPost, "/api/posts/999/like", otherToken, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete by non-owner is forbidden", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/posts/1", otherToken, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("delete by owner", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/posts/1", authorToken, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/posts/1", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestGetPosts_Sorting(t *testing.T) {
	srv, app := newTestServer(t)
	_, token := registerUser(t, srv, app, "google-sub-1", "DogLover")

	for _, p := range []fiber.Map{
		{"title": "first", "content": "c", "pet_category": "dog"},
		{"title": "second", "content": "c", "pet_category": "cat"},
		{"title": "third", "content": "c", "pet_category": "dog"},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/posts", token, p)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	// Give the middle post the most likes.
	resp := doJSON(t, app, http.MethodPost, "/api/posts/2/like", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/posts?sort=likes", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var posts []models.Post
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 3)
	assert.Equal(t, "second", posts[0].Title)
}
