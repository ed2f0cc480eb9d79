package youtube

import "regexp"

// URL shapes are tried in order; the first capture wins. A bare 11-char
// video ID is accepted as already canonical.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:www\.|m\.)?youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/live/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
}

var bareVideoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ResolveVideoID extracts the canonical 11-character video ID from any
// supported URL shape. Pure string matching, no I/O.
func ResolveVideoID(raw string) (string, bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(raw); len(m) == 2 {
			return m[1], true
		}
	}
	if bareVideoIDRe.MatchString(raw) {
		return raw, true
	}
	return "", false
}
