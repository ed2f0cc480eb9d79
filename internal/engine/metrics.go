package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	WatchPageRequests     atomic.Int64
	CaptionRequests       atomic.Int64
	CaptionEmptyBodies    atomic.Int64
	TranscriptsExtracted  atomic.Int64
	TranscriptUnavailable atomic.Int64
	SupadataRequests      atomic.Int64
	OembedRequests        atomic.Int64
	ArticleRequests       atomic.Int64
	JobsSubmitted         atomic.Int64
	PollRequests          atomic.Int64
	TokenRefreshes        atomic.Int64
}

func IncrWatchPage()    { metrics.WatchPageRequests.Add(1) }
func IncrCaption()      { metrics.CaptionRequests.Add(1) }
func IncrCaptionEmpty() { metrics.CaptionEmptyBodies.Add(1) }
func IncrExtracted()    { metrics.TranscriptsExtracted.Add(1) }
func IncrUnavailable()  { metrics.TranscriptUnavailable.Add(1) }
func IncrSupadata()     { metrics.SupadataRequests.Add(1) }
func IncrOembed()       { metrics.OembedRequests.Add(1) }
func IncrArticle()      { metrics.ArticleRequests.Add(1) }
func IncrJobSubmitted() { metrics.JobsSubmitted.Add(1) }
func IncrPoll()         { metrics.PollRequests.Add(1) }
func IncrTokenRefresh() { metrics.TokenRefreshes.Add(1) }

// GetMetrics returns a snapshot of all counters including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"watch_page_requests":    metrics.WatchPageRequests.Load(),
		"caption_requests":       metrics.CaptionRequests.Load(),
		"caption_empty_bodies":   metrics.CaptionEmptyBodies.Load(),
		"transcripts_extracted":  metrics.TranscriptsExtracted.Load(),
		"transcript_unavailable": metrics.TranscriptUnavailable.Load(),
		"supadata_requests":      metrics.SupadataRequests.Load(),
		"oembed_requests":        metrics.OembedRequests.Load(),
		"article_requests":       metrics.ArticleRequests.Load(),
		"jobs_submitted":         metrics.JobsSubmitted.Load(),
		"poll_requests":          metrics.PollRequests.Load(),
		"token_refreshes":        metrics.TokenRefreshes.Load(),
		"cache_hits":             hits,
		"cache_misses":           misses,
	}
}

// FormatMetrics renders the metrics snapshot as plain text for the server metrics hook.
func FormatMetrics() string {
	snapshot := GetMetrics()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, snapshot[k])
	}
	return sb.String()
}
