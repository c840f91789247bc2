package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pawprints/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmojis(t *testing.T) {
	t.Run("proxies upstream", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"slug":"dog-face","character":"🐶"}]`))
		}))
		defer upstream.Close()

		srv, app := newTestServer(t)
		srv.emojiService = service.NewEmojiService(upstream.URL, "test-key")

		resp := doJSON(t, app, http.MethodGet, "/api/emojis", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var emojis []struct {
			Slug string `json:"slug"`
		}
		decodeBody(t, resp, &emojis)
		require.Len(t, emojis, 1)
		assert.Equal(t, "dog-face", emojis[0].Slug)
	})

	t.Run("unconfigured upstream surfaces 502", func(t *testing.T) {
		_, app := newTestServer(t)
		resp := doJSON(t, app, http.MethodGet, "/api/emojis", "", nil)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	})
}
