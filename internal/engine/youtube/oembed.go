package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"watchlater/internal/engine"
)

const untitledVideo = "Untitled Video"

// FetchTitle looks up the video title via the oEmbed endpoint, which needs
// no credentials. Any failure yields the placeholder title; a summary with
// a generic title beats a failed job.
func FetchTitle(ctx context.Context, videoID string) string {
	engine.IncrOembed()

	endpoint := "https://www.youtube.com/oembed?format=json&url=" +
		url.QueryEscape("https://www.youtube.com/watch?v="+videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return untitledVideo
	}
	req.Header.Set("User-Agent", engine.UserAgentBot)

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return untitledVideo
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return untitledVideo
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Title == "" {
		return untitledVideo
	}
	return payload.Title
}
