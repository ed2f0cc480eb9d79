package youtube

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"watchlater/internal/engine"
)

// Result is the terminal outcome of one extraction run. Unavailable is a
// normal outcome, distinct from a transport error: every track, format and
// fallback engine was tried and none produced text.
type Result struct {
	VideoID     string
	Title       string
	Text        string
	Unavailable bool
}

// Extract runs the full tiered extraction for one video: discover tracks,
// rank them, try the raw URL then each rewritten format per track, then the
// third-party engine. The first non-empty transcript short-circuits
// everything that remains. Attempts never run concurrently: the host is
// rate-sensitive and correctness depends on short-circuiting.
func Extract(ctx context.Context, videoID string) (Result, error) {
	cacheKey := engine.CacheKey("transcript", videoID)
	if cached, ok := engine.CacheGetTranscript(ctx, cacheKey); ok {
		return Result{VideoID: videoID, Title: cached.Title, Text: cached.Text}, nil
	}

	sess := NewSession()

	disc, err := DiscoverTracks(ctx, sess, videoID)
	if err != nil {
		return Result{}, err
	}
	slog.Debug("discovered caption tracks",
		slog.String("id", videoID),
		slog.Int("tracks", len(disc.Tracks)),
		slog.Bool("token", disc.Token != ""))

	for _, track := range rankTracks(disc.Tracks, engine.Cfg.PreferredLanguages) {
		if text := tryTrack(ctx, sess, track, disc.Token); text != "" {
			return finish(ctx, cacheKey, videoID, text)
		}
	}

	// Alternate execution engine: third-party transcript API.
	if text, err := supadataTranscript(ctx, videoID); err == nil && text != "" {
		return finish(ctx, cacheKey, videoID, text)
	} else if err != nil {
		slog.Warn("transcript API fallback failed", slog.String("id", videoID), slog.Any("error", err))
	}

	engine.IncrUnavailable()
	slog.Info("transcript unavailable", slog.String("id", videoID), slog.Int("tracks", len(disc.Tracks)))
	return Result{VideoID: videoID, Unavailable: true}, nil
}

// tryTrack attempts one track: the raw discovered URL first, then each
// format rewrite with the token attached. Soft failures advance, transport
// errors are logged and treated the same.
func tryTrack(ctx context.Context, sess *Session, track CaptionTrack, token string) string {
	text, err := FetchCaptions(ctx, sess, track.SourceURL)
	if err != nil {
		slog.Debug("raw track fetch failed", slog.String("lang", track.LanguageCode), slog.Any("error", err))
	}
	if text != "" {
		return text
	}

	for _, format := range Formats {
		text, err := FetchCaptions(ctx, sess, WithFormat(track.SourceURL, format, token))
		if err != nil {
			slog.Debug("format fetch failed",
				slog.String("lang", track.LanguageCode),
				slog.String("fmt", format),
				slog.Any("error", err))
			continue
		}
		if text != "" {
			return text
		}
	}
	return ""
}

func finish(ctx context.Context, cacheKey, videoID, text string) (Result, error) {
	engine.IncrExtracted()
	title := FetchTitle(ctx, videoID)
	engine.CacheSetTranscript(ctx, cacheKey, engine.CachedTranscript{
		VideoID: videoID,
		Title:   title,
		Text:    text,
	})
	return Result{VideoID: videoID, Title: title, Text: text}, nil
}

// rankTracks orders tracks: manual English, auto English, manual
// second-preference language, auto second-preference, then everything else
// in discovery order. The order is strict and total; stable sort preserves
// discovery order within a class.
func rankTracks(tracks []CaptionTrack, langs []string) []CaptionTrack {
	second := ""
	if len(langs) > 1 {
		second = langs[1]
	}

	class := func(t CaptionTrack) int {
		switch {
		case isEnglish(t.LanguageCode) && !t.AutoGenerated():
			return 0
		case isEnglish(t.LanguageCode):
			return 1
		case second != "" && matchesLang(t.LanguageCode, second) && !t.AutoGenerated():
			return 2
		case second != "" && matchesLang(t.LanguageCode, second):
			return 3
		}
		return 4
	}

	ranked := make([]CaptionTrack, len(tracks))
	copy(ranked, tracks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return class(ranked[i]) < class(ranked[j])
	})
	return ranked
}

func isEnglish(code string) bool {
	return matchesLang(code, "en")
}

// matchesLang accepts exact codes and regional variants (en matches en-GB).
func matchesLang(code, base string) bool {
	return code == base || strings.HasPrefix(code, base+"-")
}
