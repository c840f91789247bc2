package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pawprints/internal/models"
	"pawprints/internal/observability"
)

const emojiRequestTimeout = 10 * time.Second

// EmojiService proxies the public emoji catalog so the API key never reaches
// the browser.
type EmojiService struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewEmojiService returns a new EmojiService for the given upstream.
func NewEmojiService(baseURL, apiKey string) *EmojiService {
	return &EmojiService{
		client:  &http.Client{Timeout: emojiRequestTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// List fetches the full emoji catalog from the upstream service and returns
// its JSON payload untouched.
func (s *EmojiService) List(ctx context.Context) (json.RawMessage, error) {
	if s.apiKey == "" {
		return nil, models.NewUpstreamError("emoji-api", fmt.Errorf("no API key configured"))
	}

	ctx, span := observability.GetTraceLayer().TraceUpstreamCall(ctx, "emoji-api", "list")
	defer span.End()

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, models.NewUpstreamError("emoji-api", err)
	}
	q := u.Query()
	q.Set("access_key", s.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, models.NewUpstreamError("emoji-api", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		observability.UpstreamRequestsTotal.WithLabelValues("emoji-api", "error").Inc()
		return nil, models.NewUpstreamError("emoji-api", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.UpstreamRequestsTotal.WithLabelValues("emoji-api", "error").Inc()
		return nil, models.NewUpstreamError("emoji-api", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		observability.UpstreamRequestsTotal.WithLabelValues("emoji-api", "error").Inc()
		return nil, models.NewUpstreamError("emoji-api", err)
	}
	if !json.Valid(body) {
		observability.UpstreamRequestsTotal.WithLabelValues("emoji-api", "error").Inc()
		return nil, models.NewUpstreamError("emoji-api", fmt.Errorf("malformed response body"))
	}

	observability.UpstreamRequestsTotal.WithLabelValues("emoji-api", "ok").Inc()
	return json.RawMessage(body), nil
}
