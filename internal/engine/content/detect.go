package content

import (
	"regexp"
	"strings"
)

// SourceType classifies what kind of content a URL points at.
type SourceType string

const (
	SourceYouTube SourceType = "youtube"
	SourceArticle SourceType = "article"
	SourcePDF     SourceType = "pdf"
	SourcePodcast SourceType = "podcast"
)

var youtubeHostRe = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/|youtu\.be/)`)

var pdfRe = regexp.MustCompile(`\.pdf(\?.*)?$`)

var podcastDomains = []string{
	"podcasts.apple.com", "open.spotify.com", "overcast.fm",
	"pocketcasts.com", "castro.fm", "anchor.fm",
}

// DetectSourceType auto-detects the content source type from a URL.
// Anything unrecognized is treated as an article.
func DetectSourceType(rawURL string) SourceType {
	lower := strings.ToLower(strings.TrimSpace(rawURL))

	if youtubeHostRe.MatchString(lower) {
		return SourceYouTube
	}
	if pdfRe.MatchString(lower) {
		return SourcePDF
	}
	for _, domain := range podcastDomains {
		if strings.Contains(lower, domain) {
			return SourcePodcast
		}
	}
	return SourceArticle
}
