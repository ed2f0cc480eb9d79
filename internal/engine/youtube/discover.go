package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"watchlater/internal/engine"
)

const (
	watchURLPrefix = "https://www.youtube.com/watch?v="
	captionMarker  = `"captionTracks":`

	// bracketScanCeiling bounds the depth scan so a truncated or hostile
	// page cannot spin the loop. Real caption arrays are well under 100KB.
	bracketScanCeiling = 1_000_000

	// Shorter candidates are fragments of unrelated fields, not tokens.
	minTokenLen = 32
)

// CaptionTrack is one language/variant of timed text with its fetch URL.
type CaptionTrack struct {
	LanguageCode string
	SourceURL    string
}

// AutoGenerated reports whether the track is machine-generated. The host
// marks ASR tracks with a kind=asr query parameter on the track URL.
func (t CaptionTrack) AutoGenerated() bool {
	return strings.Contains(t.SourceURL, "kind=asr")
}

// Discovery is the result of scanning a video's watch page: the available
// caption tracks and, when found, the proof-of-origin token the host wants
// echoed back on caption requests. Both may be absent on a valid page.
type Discovery struct {
	Tracks []CaptionTrack
	Token  string
}

// DiscoverTracks fetches the public watch page and extracts caption tracks
// and the access token. An empty result is valid; only transport failure
// is an error.
func DiscoverTracks(ctx context.Context, sess *Session, videoID string) (Discovery, error) {
	engine.IncrWatchPage()

	body, err := sess.WatchPage(ctx, watchURLPrefix+videoID)
	if err != nil {
		return Discovery{}, fmt.Errorf("watch page %s: %w", videoID, err)
	}

	page := string(body)
	return Discovery{
		Tracks: parseCaptionTracks(page),
		Token:  findAccessToken(page),
	}, nil
}

// captionArraySlice locates the exact extent of the JSON array starting at
// the first '[' at or after start, by bracket-depth counting with string
// awareness. Returns the index one past the matching ']' and true, or 0 and
// false for malformed input or a scan past the ceiling.
func captionArraySlice(s string, start int) (int, bool) {
	i := start
	for i < len(s) && s[i] != '[' {
		if i-start > bracketScanCeiling {
			return 0, false
		}
		i++
	}
	if i == len(s) {
		return 0, false
	}

	depth := 0
	inStr := false
	for j := i; j < len(s); j++ {
		if j-i > bracketScanCeiling {
			return 0, false
		}
		c := s[j]
		if inStr {
			switch c {
			case '\\':
				j++ // skip escaped char
			case '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		}
	}
	return 0, false
}

// Track fields appear in both orderings depending on which player bundle
// rendered the page, so both are tried and whichever matches wins.
// The separator tolerates one nested object (the track's name label) but a
// bare closing brace stops the match, so a pair never spans two tracks.
const trackFieldGap = `(?:[^{}]|\{[^{}]*\})*?`

var (
	trackURLFirstRe  = regexp.MustCompile(`"baseUrl"\s*:\s*"((?:[^"\\]|\\.)*)"` + trackFieldGap + `"languageCode"\s*:\s*"([A-Za-z-]+)"`)
	trackLangFirstRe = regexp.MustCompile(`"languageCode"\s*:\s*"([A-Za-z-]+)"` + trackFieldGap + `"baseUrl"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// parseCaptionTracks isolates the captionTracks array and pulls
// (sourceUrl, languageCode) pairs out of it. Tracks are deduplicated by
// language code, first occurrence winning.
func parseCaptionTracks(page string) []CaptionTrack {
	idx := strings.Index(page, captionMarker)
	if idx < 0 {
		return nil
	}
	start := idx + len(captionMarker)
	end, ok := captionArraySlice(page, start)
	if !ok {
		return nil
	}
	arr := page[start:end]

	type pair struct{ url, lang string }
	var pairs []pair
	for _, m := range trackURLFirstRe.FindAllStringSubmatch(arr, -1) {
		pairs = append(pairs, pair{url: m[1], lang: m[2]})
	}
	if len(pairs) == 0 {
		for _, m := range trackLangFirstRe.FindAllStringSubmatch(arr, -1) {
			pairs = append(pairs, pair{url: m[2], lang: m[1]})
		}
	}

	seen := make(map[string]bool, len(pairs))
	tracks := make([]CaptionTrack, 0, len(pairs))
	for _, p := range pairs {
		if seen[p.lang] {
			continue
		}
		seen[p.lang] = true
		tracks = append(tracks, CaptionTrack{
			LanguageCode: p.lang,
			SourceURL:    normalizeTrackURL(p.url),
		})
	}
	return tracks
}

// normalizeTrackURL unescapes embedded separators and rewrites
// host-relative URLs to absolute ones.
func normalizeTrackURL(u string) string {
	u = strings.ReplaceAll(u, `\u0026`, "&")
	u = strings.ReplaceAll(u, `\/`, "/")
	if strings.HasPrefix(u, "/") {
		u = "https://www.youtube.com" + u
	}
	return u
}

// Known field shapes carrying the access token, nested object forms first.
// Ordered: the serviceIntegrityDimensions form is the current one, the flat
// forms linger in older player bundles.
var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"serviceIntegrityDimensions"\s*:\s*\{\s*"poToken"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"poToken"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"botguardData"[^}]*"program"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`[?&]pot=([A-Za-z0-9_\-=%]+)`),
}

// findAccessToken scans the full page for token field shapes and accepts
// the first candidate longer than minTokenLen. Short matches are false
// positives and are skipped; absence is a valid result.
func findAccessToken(page string) string {
	for _, re := range tokenPatterns {
		for _, m := range re.FindAllStringSubmatch(page, -1) {
			if len(m[1]) > minTokenLen {
				return m[1]
			}
		}
	}
	return ""
}
