package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"watchlater/internal/engine"
)

// Third-party transcript API (Supadata), used as the last extraction tier:
// it runs its own unblocked infrastructure and succeeds on videos where
// direct caption fetches come back empty. Disabled unless an API key is
// configured.

type supadataResponse struct {
	Title   string `json:"title"`
	Content []struct {
		Text     string `json:"text"`
		Offset   int64  `json:"offset"`
		Duration int64  `json:"duration"`
	} `json:"content"`
}

func supadataTranscript(ctx context.Context, videoID string) (string, error) {
	apiKey := engine.Cfg.SupadataAPIKey
	if apiKey == "" {
		return "", nil
	}
	engine.IncrSupadata()

	endpoint := engine.Cfg.SupadataURL +
		"?url=" + url.QueryEscape("https://www.youtube.com/watch?v="+videoID)

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-api-key", apiKey)
		req.Header.Set("Accept", "application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("transcript api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("transcript api: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var payload supadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("transcript api decode: %w", err)
	}
	if len(payload.Content) == 0 {
		return "", errors.New("transcript api returned empty content")
	}

	var sb strings.Builder
	for _, item := range payload.Content {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return engine.CollapseWhitespace(sb.String()), nil
}
