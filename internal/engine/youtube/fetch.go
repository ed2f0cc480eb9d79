package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/url"
	"regexp"
	"strings"

	"watchlater/internal/engine"
)

// Caption wire formats, in attempt order. Format negotiation is advisory:
// the host sometimes answers in a different format than requested, so every
// payload goes through all parsers regardless.
const (
	FormatJSON3 = "json3"
	FormatSRV3  = "srv3"
	FormatSRV1  = "srv1"
)

// Formats is the preference order for format rewriting.
var Formats = []string{FormatJSON3, FormatSRV3, FormatSRV1}

const maxCaptionBytes = 2 * 1024 * 1024

// FetchCaptions retrieves one caption payload and parses it into flattened
// text. A zero-length body is a soft miss ("", nil): the caller tries the
// next format or track. Only transport failure is an error.
func FetchCaptions(ctx context.Context, sess *Session, trackURL string) (string, error) {
	engine.IncrCaption()

	if lim := engine.Cfg.CaptionRate; lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return "", err
		}
	}

	// The host validates request provenance.
	headers := map[string]string{
		"accept":     "*/*",
		"referer":    "https://www.youtube.com/",
		"origin":     "https://www.youtube.com",
		"user-agent": engine.UserAgentChrome,
	}
	body, err := sess.get(ctx, trackURL, headers, maxCaptionBytes)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		engine.IncrCaptionEmpty()
		return "", nil
	}
	return ParseCaptionPayload(body), nil
}

// WithFormat rewrites or appends the format parameter on a caption URL and,
// when token is non-empty, attaches the proof-of-origin token.
func WithFormat(trackURL, format, token string) string {
	u := trackURL
	switch {
	case strings.Contains(u, "fmt="):
		u = fmtParamRe.ReplaceAllString(u, "${1}fmt="+format)
	case strings.ContainsRune(u, '?'):
		u += "&fmt=" + format
	default:
		u += "?fmt=" + format
	}
	if token != "" && !strings.Contains(u, "pot=") {
		u += "&pot=" + url.QueryEscape(token)
	}
	return u
}

var fmtParamRe = regexp.MustCompile(`([?&])fmt=[^&]*`)

// ParseCaptionPayload tries every known payload shape in order and returns
// the first non-empty flattened text, or "".
func ParseCaptionPayload(data []byte) string {
	if text := parseEventStream(data); text != "" {
		return text
	}
	return parseInlineMarkup(data)
}

// eventStream is the structured-event payload (json3): an ordered list of
// events, each with ordered text segments.
type eventStream struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func parseEventStream(data []byte) string {
	var stream eventStream
	if err := json.Unmarshal(data, &stream); err != nil {
		return ""
	}
	var sb strings.Builder
	for _, ev := range stream.Events {
		for _, seg := range ev.Segs {
			text := strings.TrimSpace(seg.UTF8)
			if text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}
	return engine.CollapseWhitespace(sb.String())
}

// timedText is the inline-markup payload (srv1/srv3): pseudo-XML with
// repeated text-bearing elements. Inner markup is kept raw so text inside
// styling tags survives; tag stripping happens downstream.
type timedText struct {
	Lines []struct {
		Raw string `xml:",innerxml"`
	} `xml:"text"`
}

// Caption markup is not always well-formed XML (attribute values carry raw
// ampersands), so a regex pass backs up the XML decoder.
var inlineTextRe = regexp.MustCompile(`(?s)<text[^>]*>(.*?)</text>`)

func parseInlineMarkup(data []byte) string {
	var parts []string

	var tt timedText
	if err := xml.Unmarshal(data, &tt); err == nil {
		for _, line := range tt.Lines {
			parts = append(parts, engine.DecodeEntities(line.Raw))
		}
	}
	if len(parts) == 0 {
		for _, m := range inlineTextRe.FindAllSubmatch(data, -1) {
			parts = append(parts, engine.DecodeEntities(string(m[1])))
		}
	}

	var sb strings.Builder
	for _, p := range parts {
		text := engine.CleanHTML(p)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return engine.CollapseWhitespace(sb.String())
}
