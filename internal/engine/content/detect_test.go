package content

import "testing"

func TestDetectSourceType(t *testing.T) {
	tests := []struct {
		url  string
		want SourceType
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", SourceYouTube},
		{"https://youtu.be/dQw4w9WgXcQ", SourceYouTube},
		{"http://m.youtube.com/watch?v=dQw4w9WgXcQ", SourceYouTube},
		{"youtube.com/shorts/dQw4w9WgXcQ", SourceYouTube},
		{"https://example.com/paper.pdf", SourcePDF},
		{"https://example.com/paper.PDF", SourcePDF},
		{"https://example.com/doc.pdf?dl=1", SourcePDF},
		{"https://podcasts.apple.com/us/podcast/x/id123", SourcePodcast},
		{"https://open.spotify.com/episode/abc", SourcePodcast},
		{"https://overcast.fm/+abc", SourcePodcast},
		{"https://example.com/blog/post", SourceArticle},
		{"https://example.com/pdf-reader-review", SourceArticle},
		{"  https://example.com/spaces  ", SourceArticle},
		{"", SourceArticle},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := DetectSourceType(tt.url); got != tt.want {
				t.Errorf("DetectSourceType(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
